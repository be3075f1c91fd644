package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/project-plans
func ListProjectPlans(c *gin.Context) {
	q := parsePageQuery(c)
	items, total, err := models.PaginateProjectPlans(c.Request.Context(), q.Name, q.Page, q.Limit)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"project_plans": items, "total": total, "page": q.Page, "limit": q.Limit})
}

// PATCH /api/project-plans/:id/active
func ToggleActiveProjectPlan(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.ToggleActiveProjectPlan(c.Request.Context(), id, utils.DereferencePtr(req.IsActive))
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// GET /api/projects/:id/plan
func GetProjectPlan(c *gin.Context) {
	projectId, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.GetProjectPlanByProject(c.Request.Context(), projectId)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// POST /api/projects/:id/plan
func CreateProjectPlan(c *gin.Context) {
	projectId, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProjectPlan
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateProjectPlan(c.Request.Context(), projectId, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/projects/:id/plan
func UpdateProjectPlan(c *gin.Context) {
	projectId, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProjectPlan
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateProjectPlanByProject(c.Request.Context(), projectId, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/projects/:id/plan
func DeleteProjectPlan(c *gin.Context) {
	projectId, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteProjectPlanByProject(c.Request.Context(), projectId)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// POST /api/projects/:id/plan/import
func ImportProjectPlan(c *gin.Context) {
	projectId, ok := paramId(c)
	if !ok {
		return
	}
	var input models.PlanImport
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CreateProjectPlanFromImport(c.Request.Context(), projectId, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

type clonePlanRequest struct {
	TargetProjectId int    `json:"target_project_id" binding:"required"`
	Name            string `json:"name"`
}

// POST /api/project-plans/:id/clone
func CloneProjectPlan(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req clonePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.CloneProjectPlan(c.Request.Context(), id, req.TargetProjectId, req.Name)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
