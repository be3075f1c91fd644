package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/users/me
func Me(c *gin.Context) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorEnvelope{Error: APIError{Message: "unauthorized"}})
		return
	}
	result, err := models.GetUser(c.Request.Context(), userId)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// POST /api/users (admin)
func CreateUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
