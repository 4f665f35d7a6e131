package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/doablehq/doable/internal/action"
)

func handleActionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := action.ListFilters{
			Status:    c.Query("status"),
			ProjectID: c.Query("project"),
			ParentID:  c.Query("parent"),
			TagID:     c.Query("tag"),
			Flagged:   c.Query("flagged") == "true",
			Inbox:     c.Query("inbox") == "true",
		}
		actions, err := action.List(db, filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"actions": actions})
	}
}

func handleActionCreate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Title            string     `json:"title"`
		Note             string     `json:"note"`
		ProjectID        string     `json:"project_id"`
		ParentID         string     `json:"parent_id"`
		Flagged          bool       `json:"flagged"`
		EstimatedMinutes int        `json:"estimated_minutes"`
		DueAt            *time.Time `json:"due_at"`
		DeferUntil       *time.Time `json:"defer_until"`
		TagIDs           []string   `json:"tag_ids"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := action.Create(db, action.CreateOpts{
			Title:            req.Title,
			Note:             req.Note,
			ProjectID:        req.ProjectID,
			ParentID:         req.ParentID,
			Flagged:          req.Flagged,
			EstimatedMinutes: req.EstimatedMinutes,
			DueAt:            req.DueAt,
			DeferUntil:       req.DeferUntil,
			TagIDs:           req.TagIDs,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func handleActionGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := action.Get(db, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func handleActionUpdate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Title            *string    `json:"title"`
		Note             *string    `json:"note"`
		Status           *string    `json:"status"`
		Flagged          *bool      `json:"flagged"`
		Position         *int       `json:"position"`
		EstimatedMinutes *int       `json:"estimated_minutes"`
		DueAt            *time.Time `json:"due_at"`
		DeferUntil       *time.Time `json:"defer_until"`
		ProjectID        *string    `json:"project_id"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Note != nil {
			updates["note"] = *req.Note
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.Flagged != nil {
			updates["flagged"] = *req.Flagged
		}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.EstimatedMinutes != nil {
			updates["estimated_minutes"] = *req.EstimatedMinutes
		}
		if req.DueAt != nil {
			updates["due_at"] = *req.DueAt
		}
		if req.DeferUntil != nil {
			updates["defer_until"] = *req.DeferUntil
		}
		if req.ProjectID != nil {
			if *req.ProjectID == "" {
				updates["project_id"] = nil
			} else {
				updates["project_id"] = *req.ProjectID
			}
		}
		if err := action.Update(db, c.Param("id"), updates); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

func handleActionComplete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action.Complete(db, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "completed"})
	}
}

func handleActionDrop(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action.Drop(db, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "dropped"})
	}
}

func handleActionDefer(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Until time.Time `json:"until"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := action.Defer(db, c.Param("id"), req.Until); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deferred"})
	}
}

func handleDepAdd(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		BlockedBy string `json:"blocked_by"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := action.AddDep(db, c.Param("id"), req.BlockedBy); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "added"})
	}
}

func handleDepRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action.RemoveDep(db, c.Param("id"), c.Param("dep")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	}
}
