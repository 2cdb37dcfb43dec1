package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inchat/internal/app"
)

// PageHandler serves the static pages and decides where the browser lands
// based on whether a live auth session exists.
type PageHandler struct {
	authService *app.AuthService
	cookieName  string
}

func NewPageHandler(authService *app.AuthService, cookieName string) *PageHandler {
	return &PageHandler{authService: authService, cookieName: cookieName}
}

func (h *PageHandler) Index(c *gin.Context) {
	if h.isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/chat")
		return
	}
	c.File("web/login.html")
}

func (h *PageHandler) ChatPage(c *gin.Context) {
	if !h.isAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.File("web/chat.html")
}

func (h *PageHandler) isAuthenticated(c *gin.Context) bool {
	raw, err := c.Cookie(h.cookieName)
	if err != nil || raw == "" {
		return false
	}
	_, err = h.authService.Authenticate(c.Request.Context(), raw)
	return err == nil
}
