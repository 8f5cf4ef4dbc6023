package domain

import "strings"

// Address is the delivery address captured on the profile.
type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
}

// Profile holds the contact and delivery details checkout requires.
type Profile struct {
	UID     string
	Name    string
	Email   string
	Phone   string
	Address Address
}

// Normalize trims every field and validates the email when present.
func (p *Profile) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address.Street = strings.TrimSpace(p.Address.Street)
	p.Address.City = strings.TrimSpace(p.Address.City)
	p.Address.State = strings.TrimSpace(p.Address.State)
	p.Address.Pincode = strings.TrimSpace(p.Address.Pincode)
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// MissingContactFields lists the empty contact fields in display order.
func (p *Profile) MissingContactFields() []string {
	return missing(
		field{"name", p.Name},
		field{"email", p.Email},
		field{"phone", p.Phone},
	)
}

// MissingAddressFields lists the empty delivery address fields in display order.
func (p *Profile) MissingAddressFields() []string {
	return missing(
		field{"street", p.Address.Street},
		field{"city", p.Address.City},
		field{"state", p.Address.State},
		field{"pincode", p.Address.Pincode},
	)
}

type field struct {
	name  string
	value string
}

func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
