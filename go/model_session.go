package storefrontserver

import (
	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	cartmapper "github.com/Apurer/storefront/internal/domains/cart/adapters/http/mapper"
)

// SignInRequest is the dev sign-in payload. Production deployments issue
// tokens through the identity provider instead.
type SignInRequest struct {
	UID           string `json:"uid" binding:"required"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Role          string `json:"role"`
}

type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type Session struct {
	Token    string          `json:"token"`
	Identity Identity        `json:"identity"`
	Cart     cartmapper.Cart `json:"cart"`
}

func fromIdentity(identity *accountsdomain.Identity) Identity {
	return Identity{UID: identity.UID, Email: identity.Email, Role: string(identity.Role)}
}
