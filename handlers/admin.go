package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartbuild-mm/smartbuild_backend/config"
)

// POST /api/admin/cache/clear (admin)
func ClearCache(c *gin.Context) {
	if err := config.ClearRedis(c.Request.Context()); err != nil {
		respondModelError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "cache cleared"})
}
