package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/projects
func ListProjects(c *gin.Context) {
	q := parsePageQuery(c)
	items, total, err := models.PaginateProjects(c.Request.Context(), q.Name, q.Page, q.Limit)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"projects": items, "total": total, "page": q.Page, "limit": q.Limit})
}

// POST /api/projects
func CreateProject(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/projects/:id
func GetProject(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetProject(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/projects/:id
func UpdateProject(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateProject(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/projects/:id
func DeleteProject(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteProject(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PATCH /api/projects/:id/active
func ToggleActiveProject(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.ToggleActiveProject(c.Request.Context(), id, utils.DereferencePtr(req.IsActive))
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
