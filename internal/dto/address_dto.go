package dto

type AddressRequest struct {
	AddressType  string  `json:"address_type"`
	IsDefault    bool    `json:"is_default"`
	FullName     string  `json:"full_name"`
	Phone        string  `json:"phone"`
	Company      *string `json:"company,omitempty"`
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	Landmark     *string `json:"landmark,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	Notes        *string `json:"notes,omitempty"`
}
