package domain

import (
	"errors"
	"strings"
)

// Role separates shoppers from back-office users.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrForbidden        = errors.New("operation not permitted for this role")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrInvalidRole      = errors.New("role must be customer or vendor")
)

// Identity is the authenticated principal behind a session token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Role          Role
}

// Validate normalises the identity and enforces its invariants.
func (i *Identity) Validate() error {
	i.UID = strings.TrimSpace(i.UID)
	i.Email = strings.TrimSpace(i.Email)
	if i.UID == "" {
		return ErrNotAuthenticated
	}
	if i.Email != "" && !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	switch i.Role {
	case "":
		i.Role = RoleCustomer
	case RoleCustomer, RoleVendor:
	default:
		return ErrInvalidRole
	}
	return nil
}

func (i *Identity) IsVendor() bool {
	return i != nil && i.Role == RoleVendor
}
