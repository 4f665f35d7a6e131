package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/doablehq/doable/internal/perspective"
)

func handlePerspectiveList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		perspectives, err := perspective.List(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"perspectives": perspectives})
	}
}

func handlePerspectiveCreate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		FilterRules string `json:"filter_rules"`
		SortRules   string `json:"sort_rules"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := perspective.Create(db, perspective.CreateOpts{
			Slug:        req.Slug,
			Name:        req.Name,
			FilterRules: req.FilterRules,
			SortRules:   req.SortRules,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handlePerspectiveUpdate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Name        *string `json:"name"`
		FilterRules *string `json:"filter_rules"`
		SortRules   *string `json:"sort_rules"`
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
		if req.FilterRules != nil {
			updates["filter_rules"] = *req.FilterRules
		}
		if req.SortRules != nil {
			updates["sort_rules"] = *req.SortRules
		}
		if err := perspective.Update(db, c.Param("id"), updates); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

func handlePerspectiveDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := perspective.Delete(db, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

func handlePerspectiveQuery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := perspective.Query(db, c.Param("id"), time.Now())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"perspective":   res.Perspective,
			"actions":       res.Actions,
			"projects":      res.Projects,
			"skipped_rules": res.Skipped,
		})
	}
}
