package storefrontserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	apierrors "github.com/Apurer/storefront/internal/shared/errors"
)

const (
	HeaderGuestCart      = "X-Guest-Cart"
	HeaderIdempotencyKey = "Idempotency-Key"

	identityContextKey = "storefront.identity"
	tokenContextKey    = "storefront.token"
)

// Authenticator resolves bearer tokens to identities.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*accountsdomain.Identity, error)
}

// Authenticate attaches the identity of a bearer token to the request. Requests
// without a token pass through as guests; unknown tokens are rejected.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || auth == nil {
			c.Next()
			return
		}
		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(identityContextKey, identity)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// RequireAccount rejects guests.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identityFrom(c) == nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(accountsdomain.ErrNotAuthenticated.Error()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireVendor rejects everyone but back-office users.
func RequireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity == nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(accountsdomain.ErrNotAuthenticated.Error()))
			c.Abort()
			return
		}
		if !identity.IsVendor() {
			respondProblem(c, apierrors.ErrForbidden.WithDetail(accountsdomain.ErrForbidden.Error()))
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) *accountsdomain.Identity {
	value, ok := c.Get(identityContextKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*accountsdomain.Identity)
	return identity
}

func uidFrom(c *gin.Context) string {
	if identity := identityFrom(c); identity != nil {
		return identity.UID
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
