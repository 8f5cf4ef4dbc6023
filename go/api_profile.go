package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountsports "github.com/Apurer/storefront/internal/domains/accounts/ports"
)

type ProfileAPI struct {
	accounts accountsports.Service
}

func NewProfileAPI(accounts accountsports.Service) ProfileAPI {
	return ProfileAPI{accounts: accounts}
}

// Get /v1/profile
func (api *ProfileAPI) GetProfile(c *gin.Context) {
	profile, err := api.accounts.Profile(c.Request.Context(), uidFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProfile(profile))
}

// Put /v1/profile
func (api *ProfileAPI) UpdateProfile(c *gin.Context) {
	var payload Profile
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := api.accounts.UpdateProfile(c.Request.Context(), uidFrom(c), toProfile(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProfile(saved))
}
