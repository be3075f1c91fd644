package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
)

// POST /api/build-systems/:id/locations
func AddBuildSystemLocation(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	addLocation(c, models.ReferenceTypeBuildSystem, id)
}

// POST /api/project-plans/:id/locations
func AddProjectPlanLocation(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	addLocation(c, models.ReferenceTypeProjectPlan, id)
}

func addLocation(c *gin.Context, referenceType string, referenceId int) {
	var input models.NewLocation
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.AddLocation(c.Request.Context(), referenceType, referenceId, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// POST /api/locations/:id/sub-locations
func AddSubLocation(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewLocation
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.AddSubLocation(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

type addDevicesRequest struct {
	Devices []models.NewDeviceAssignment `json:"devices" binding:"required,dive"`
}

// POST /api/locations/:id/devices
func AddLocationDevices(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req addDevicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.AddLocationDevices(c.Request.Context(), id, req.Devices)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/locations/:id
func DeleteLocation(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteLocation(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// PUT /api/device-assignments/:id
func UpdateDeviceAssignment(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewDeviceAssignment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.UpdateDeviceAssignment(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}

// DELETE /api/device-assignments/:id
func DeleteDeviceAssignment(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	result, err := models.DeleteDeviceAssignment(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, result)
}
