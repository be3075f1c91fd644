package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/utils"
)

type APIError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondBindError maps gin binding failures to field-scoped messages.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, ErrorEnvelope{
			Error: APIError{Message: "validation failed", Fields: fields},
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: err.Error()}})
}

// respondModelError maps model-layer errors: not-found to 404, the rest
// to 400 (validation failures are the common case on these paths).
func respondModelError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "record not found"}})
		return
	}
	correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	config.LogError(config.GetLogger(), "handlers", c.HandlerName(), correlationId, nil, err)
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: err.Error()}})
}

func paramId(c *gin.Context) (int, bool) {
	id := utils.ParsePositiveInt(c.Param("id"), 0)
	if id == 0 {
		c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: "invalid id"}})
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Name  string
	Page  int
	Limit int
}

// limit 0 defers to the model-layer default page size
func parsePageQuery(c *gin.Context) pageQuery {
	return pageQuery{
		Name:  c.Query("name"),
		Page:  utils.ParsePositiveInt(c.Query("page"), 1),
		Limit: utils.ParsePositiveInt(c.Query("limit"), 0),
	}
}
