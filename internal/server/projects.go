package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/doablehq/doable/internal/project"
)

func handleProjectList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := project.List(db, project.ListFilters{
			Status: c.Query("status"),
			Type:   c.Query("type"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func handleProjectCreate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Name           string `json:"name"`
		Note           string `json:"note"`
		Type           string `json:"type"`
		ReviewInterval string `json:"review_interval"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := project.Create(db, project.CreateOpts{
			Name:           req.Name,
			Note:           req.Note,
			Type:           req.Type,
			ReviewInterval: req.ReviewInterval,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handleProjectGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.Get(db, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleProjectUpdate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Name           *string `json:"name"`
		Note           *string `json:"note"`
		Type           *string `json:"type"`
		Status         *string `json:"status"`
		Position       *int    `json:"position"`
		ReviewInterval *string `json:"review_interval"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Note != nil {
			updates["note"] = *req.Note
		}
		if req.Type != nil {
			updates["type"] = *req.Type
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.ReviewInterval != nil {
			updates["review_interval"] = *req.ReviewInterval
		}
		if err := project.Update(db, c.Param("id"), updates); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

func handleProjectReviewed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.MarkReviewed(db, c.Param("id"), time.Now())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
