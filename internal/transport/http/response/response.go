package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// All endpoints answer with a {success: bool, ...} envelope. Domain failures
// (validation, duplicate email, bad credentials, upstream errors) keep HTTP
// 200 with success=false; only auth and server faults change the status.

type Envelope map[string]interface{}

func OK(c *gin.Context, fields Envelope) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "unauthorized",
	})
}

func ServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
	})
}
