package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/doablehq/doable/internal/tag"
)

func handleTagList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := tag.List(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tags": tags})
	}
}

func handleTagCreate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Name           string `json:"name"`
		ParentID       string `json:"parent_id"`
		AvailableFrom  string `json:"available_from"`
		AvailableUntil string `json:"available_until"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := tag.Create(db, tag.CreateOpts{
			Name:           req.Name,
			ParentID:       req.ParentID,
			AvailableFrom:  req.AvailableFrom,
			AvailableUntil: req.AvailableUntil,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func handleTagGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := tag.Get(db, c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleTagUpdate(db *gorm.DB) gin.HandlerFunc {
	type request struct {
		Name           *string `json:"name"`
		ParentID       *string `json:"parent_id"`
		AvailableFrom  *string `json:"available_from"`
		AvailableUntil *string `json:"available_until"`
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
		if req.ParentID != nil {
			if *req.ParentID == "" {
				updates["parent_id"] = nil
			} else {
				updates["parent_id"] = *req.ParentID
			}
		}
		if req.AvailableFrom != nil {
			if *req.AvailableFrom == "" {
				updates["available_from"] = nil
			} else {
				updates["available_from"] = *req.AvailableFrom
			}
		}
		if req.AvailableUntil != nil {
			if *req.AvailableUntil == "" {
				updates["available_until"] = nil
			} else {
				updates["available_until"] = *req.AvailableUntil
			}
		}
		if err := tag.Update(db, c.Param("id"), updates); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}
