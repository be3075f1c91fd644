package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	info, err := models.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorEnvelope{Error: APIError{Message: err.Error()}})
		return
	}
	respondOK(c, info)
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	token, ok := utils.GetTokenFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorEnvelope{Error: APIError{Message: "unauthorized"}})
		return
	}
	if err := models.RevokeToken(token); err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "logged out"})
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
