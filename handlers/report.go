package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/models"
	"github.com/smartbuild-mm/smartbuild_backend/models/reports"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

// GET /api/build-systems/:id/export/excel
func ExportBuildSystemExcel(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	buildSystem, err := models.GetBuildSystem(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	export, err := models.ExportBuildSystem(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	summary, err := reports.GetLocationCostSummary(c.Request.Context(), models.ReferenceTypeBuildSystem, id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	preparedBy, _ := utils.GetUserNameFromContext(c.Request.Context())

	f, err := reports.BuildDeviceScheduleWorkbook(buildSystem.Name, preparedBy, export, summary)
	if err != nil {
		respondModelError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=build-system-%d.xlsx", id))
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
