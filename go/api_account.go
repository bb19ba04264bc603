package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accounthttpmapper "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/http/mapper"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
)

// AccountAPI handles sign-up and sign-in.
type AccountAPI struct {
	service accountsports.Service
}

func NewAccountAPI(service accountsports.Service) AccountAPI {
	return AccountAPI{service: service}
}

// Post /register
// Creates an account awaiting admin verification
func (api *AccountAPI) Register(c *gin.Context) {
	var payload accounthttpmapper.Registration
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if _, err := api.service.Register(c.Request.Context(), accounthttpmapper.ToRegistration(payload)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration successful. Wait for administrator approval."})
}

// Post /login
// Authenticates by email or phone
func (api *AccountAPI) Login(c *gin.Context) {
	var payload accounthttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := api.service.Login(c.Request.Context(), payload.Identifier, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    accounthttpmapper.FromDomainProfile(account),
	})
}
