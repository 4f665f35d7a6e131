package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/doablehq/doable/internal/perspective"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	api := router.Group("/api")

	api.GET("/perspectives", handlePerspectiveList(db))
	api.POST("/perspectives", handlePerspectiveCreate(db))
	api.PATCH("/perspectives/:id", handlePerspectiveUpdate(db))
	api.DELETE("/perspectives/:id", handlePerspectiveDelete(db))
	api.GET("/perspectives/:id/actions", handlePerspectiveQuery(db))

	api.GET("/actions", handleActionList(db))
	api.POST("/actions", handleActionCreate(db))
	api.GET("/actions/:id", handleActionGet(db))
	api.PATCH("/actions/:id", handleActionUpdate(db))
	api.POST("/actions/:id/complete", handleActionComplete(db))
	api.POST("/actions/:id/drop", handleActionDrop(db))
	api.POST("/actions/:id/defer", handleActionDefer(db))
	api.POST("/actions/:id/deps", handleDepAdd(db))
	api.DELETE("/actions/:id/deps/:dep", handleDepRemove(db))

	api.GET("/projects", handleProjectList(db))
	api.POST("/projects", handleProjectCreate(db))
	api.GET("/projects/:id", handleProjectGet(db))
	api.PATCH("/projects/:id", handleProjectUpdate(db))
	api.POST("/projects/:id/reviewed", handleProjectReviewed(db))

	api.GET("/tags", handleTagList(db))
	api.POST("/tags", handleTagCreate(db))
	api.GET("/tags/:id", handleTagGet(db))
	api.PATCH("/tags/:id", handleTagUpdate(db))
}

// respondErr maps domain errors onto HTTP statuses. The not-found and
// built-in cases are signalled by the ops packages; everything else is a
// bad request from the client's point of view.
func respondErr(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, perspective.ErrNotFound) || strings.Contains(msg, "not found"):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case strings.Contains(msg, "built-in"):
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	}
}
