package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	accountsports "github.com/Apurer/storefront/internal/domains/accounts/ports"
	cartmapper "github.com/Apurer/storefront/internal/domains/cart/adapters/http/mapper"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	apierrors "github.com/Apurer/storefront/internal/shared/errors"
)

// SessionAPI signs accounts in and out and drives the guest cart merge.
type SessionAPI struct {
	accounts  accountsports.Service
	carts     *cartapp.Sessions
	devSignIn bool
}

func NewSessionAPI(accounts accountsports.Service, carts *cartapp.Sessions, devSignIn bool) SessionAPI {
	return SessionAPI{accounts: accounts, carts: carts, devSignIn: devSignIn}
}

// Post /v1/sessions
// Issues a session token and merges the X-Guest-Cart cart into the account.
func (api *SessionAPI) SignIn(c *gin.Context) {
	if !api.devSignIn {
		respondProblem(c, apierrors.ErrForbidden.WithDetail("dev sign-in is disabled"))
		return
	}
	var payload SignInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	identity := accountsdomain.Identity{
		UID:           payload.UID,
		Email:         payload.Email,
		EmailVerified: payload.EmailVerified,
		Role:          accountsdomain.Role(payload.Role),
	}
	ctx := c.Request.Context()
	token, err := api.accounts.SignIn(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	resolved, err := api.accounts.Authenticate(ctx, token)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl, err := api.carts.Resolve(ctx, c.GetHeader(HeaderGuestCart), resolved.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Session{
		Token:    token,
		Identity: fromIdentity(resolved),
		Cart:     cartmapper.FromState(ctrl.State()),
	})
}

// Delete /v1/sessions
func (api *SessionAPI) SignOut(c *gin.Context) {
	token, _ := c.Get(tokenContextKey)
	raw, _ := token.(string)
	if err := api.accounts.SignOut(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}
	api.carts.SignOut(uidFrom(c))
	c.Status(http.StatusNoContent)
}
