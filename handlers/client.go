package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/clients
func ListClients(c *gin.Context) {
	q := parsePageQuery(c)
	items, total, err := models.PaginateClients(c.Request.Context(), q.Name, q.Page, q.Limit)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"clients": items, "total": total, "page": q.Page, "limit": q.Limit})
}

// POST /api/clients
func CreateClient(c *gin.Context) {
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateClient(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/clients/:id
func GetClient(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetClient(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/clients/:id
func UpdateClient(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewClient
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateClient(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/clients/:id
func DeleteClient(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteClient(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PATCH /api/clients/:id/active
func ToggleActiveClient(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.ToggleActiveClient(c.Request.Context(), id, utils.DereferencePtr(req.IsActive))
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
