package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/pedidos-api/internal/auth"
	"github.com/MikeMC777/pedidos-api/internal/httpx"
	"github.com/MikeMC777/pedidos-api/internal/user"
)

// RegisterRequest payload for account creation.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     example:"Maria"`
	Email    string `json:"email"    binding:"required" example:"maria@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
	Active   *bool  `json:"active,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

// LoginRequest payload for login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries issued bearer credentials.
// swagger:model TokenResponse
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// registerHandler creates an account.
//
// @Summary  Create account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RegisterRequest true "account"
// @Success  201 {object} user.User
// @Failure  409 {object} map[string]string
// @Router   /auth/register [post]
func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		u, err := svc.Register(c.Request.Context(), user.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Active:   active,
			Admin:    req.Admin,
		})
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler exchanges email+password for access and refresh tokens.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} TokenResponse
// @Failure  400 {object} map[string]string
// @Router   /auth/login [post]
func loginHandler(svc *user.Service, tokens *auth.Tokens, store auth.RefreshStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		u, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user not found or invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth error"})
			return
		}
		access, err := tokens.NewAccessToken(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		refresh, err := tokens.NewRefreshToken(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		// rotate: only the latest refresh token stays valid
		if err := store.Save(c.Request.Context(), u.ID, refresh, tokens.RefreshTTL()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
		})
	}
}

// refreshHandler issues a new access token from a stored refresh token.
//
// @Summary  Refresh access token
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} TokenResponse
// @Failure  401 {object} map[string]string
// @Router   /auth/refresh [post]
func refreshHandler(tokens *auth.Tokens, store auth.RefreshStore, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := httpx.BearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Parse(raw, auth.UseRefresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if err := store.Validate(c.Request.Context(), claims.UserID, raw); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !u.Active {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		access, err := tokens.NewAccessToken(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, TokenResponse{AccessToken: access, TokenType: "Bearer"})
	}
}
