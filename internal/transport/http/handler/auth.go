package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inchat/internal/app"
	"inchat/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	cookieName  string
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(authService *app.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request payload")
		return
	}

	_, err := h.authService.Register(app.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrEmailExists):
			response.Fail(c, err.Error())
		default:
			log.Error().Err(err).Msg("register failed")
			response.ServerError(c, "register failed")
		}
		return
	}

	response.OK(c, response.Envelope{"message": "user created successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidCredential):
			response.Fail(c, err.Error())
		default:
			log.Error().Err(err).Msg("login failed")
			response.ServerError(c, "login failed")
		}
		return
	}

	maxAge := int(h.authService.SessionTTL().Seconds())
	c.SetCookie(h.cookieName, result.Token, maxAge, "/", "", false, true)

	response.OK(c, response.Envelope{"redirect": "/chat"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cookieName); err == nil && raw != "" {
		if err := h.authService.Logout(c.Request.Context(), raw); err != nil {
			log.Warn().Err(err).Msg("invalidate auth session failed")
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
