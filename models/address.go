package models

import (
	"encoding/json"
	"strings"
)

// ShippingAddress accepts either a structured address object or a free-text
// string in the request body. Either way it flattens to a single display
// string for storage and the confirmation email.
type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`

	freeText string
}

func (a *ShippingAddress) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.freeText = s
		return nil
	}
	type structured ShippingAddress
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ShippingAddress(s)
	return nil
}

// Display flattens the address into one line: name, line1, line2,
// "city state postalCode", country and "Phone: <phone>", skipping empty
// parts, joined by ", ". Free-text addresses pass through untouched.
func (a *ShippingAddress) Display() string {
	if a == nil {
		return ""
	}
	if a.freeText != "" {
		return a.freeText
	}

	locality := strings.Join(nonEmpty(a.City, a.State, a.PostalCode), " ")
	phone := ""
	if a.Phone != "" {
		phone = "Phone: " + a.Phone
	}
	return strings.Join(nonEmpty(a.Name, a.Line1, a.Line2, locality, a.Country, phone), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
