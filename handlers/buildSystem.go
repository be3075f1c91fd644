package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/build-systems
func ListBuildSystems(c *gin.Context) {
	q := parsePageQuery(c)
	items, total, err := models.PaginateBuildSystems(c.Request.Context(), q.Name, q.Page, q.Limit)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"build_systems": items, "total": total, "page": q.Page, "limit": q.Limit})
}

// POST /api/build-systems
func CreateBuildSystem(c *gin.Context) {
	var input models.NewBuildSystem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateBuildSystem(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/build-systems/:id
func GetBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetBuildSystem(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/build-systems/:id
func UpdateBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewBuildSystem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateBuildSystem(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/build-systems/:id
func DeleteBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteBuildSystem(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

type cloneRequest struct {
	Name string `json:"name"`
}

// POST /api/build-systems/:id/clone
func CloneBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBindError(c, err)
		return
	}
	result, err := models.CloneBuildSystem(c.Request.Context(), id, req.Name)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// PATCH /api/build-systems/:id/active
func ToggleActiveBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.ToggleActiveBuildSystem(c.Request.Context(), id, utils.DereferencePtr(req.IsActive))
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/build-systems/:id/export
func ExportBuildSystem(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.ExportBuildSystem(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
