package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the role-gated dashboard. The role check itself lives
// in the RequireRole middleware.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func (h *AdminHandler) Dashboard(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":     "welcome to the admin dashboard",
		"secret_data": "classified data for admins only",
	})
}
