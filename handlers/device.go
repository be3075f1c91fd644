package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/devices
func ListDevices(c *gin.Context) {
	q := parsePageQuery(c)
	items, total, err := models.PaginateDevices(c.Request.Context(), q.Name, q.Page, q.Limit)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"devices": items, "total": total, "page": q.Page, "limit": q.Limit})
}

// GET /api/devices/all
func ListAllDevices(c *gin.Context) {
	items, err := models.ListAllDevices(c.Request.Context())
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"devices": items})
}

// POST /api/devices
func CreateDevice(c *gin.Context) {
	var input models.NewDevice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateDevice(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/devices/:id
func GetDevice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetDevice(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/devices/:id
func UpdateDevice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewDevice
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateDevice(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/devices/:id
func DeleteDevice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteDevice(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PATCH /api/devices/:id/active
func ToggleActiveDevice(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.ToggleActiveDevice(c.Request.Context(), id, utils.DereferencePtr(req.IsActive))
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
