package storefrontserver

import (
	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Profile carries the contact and delivery details checkout validates.
type Profile struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

func fromProfile(profile *accountsdomain.Profile) Profile {
	return Profile{
		Name:  profile.Name,
		Email: profile.Email,
		Phone: profile.Phone,
		Address: Address{
			Street:  profile.Address.Street,
			City:    profile.Address.City,
			State:   profile.Address.State,
			Pincode: profile.Address.Pincode,
		},
	}
}

func toProfile(payload Profile) accountsdomain.Profile {
	return accountsdomain.Profile{
		Name:  payload.Name,
		Email: payload.Email,
		Phone: payload.Phone,
		Address: accountsdomain.Address{
			Street:  payload.Address.Street,
			City:    payload.Address.City,
			State:   payload.Address.State,
			Pincode: payload.Address.Pincode,
		},
	}
}
