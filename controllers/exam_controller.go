package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/store"
)

type AddExamInput struct {
	Title    string `json:"title" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	FormLink string `json:"formLink" binding:"required,url"`
}

func GetExams(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		exams, err := content.GetExams(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exams"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"exams": exams})
	}
}

func AddExam(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddExamInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		exams, err := content.GetExams(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add exam"})
			return
		}

		ids := make([]string, 0, len(exams))
		for _, e := range exams {
			ids = append(ids, e.ID)
		}

		newExam := models.Exam{
			ID:        nextID("EXAM", ids),
			Title:     input.Title,
			Date:      input.Date,
			Time:      input.Time,
			FormLink:  input.FormLink,
			CreatedAt: nowDateTime(),
		}

		exams = append(exams, newExam)
		if err := content.SetExams(c.Request.Context(), exams); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add exam"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "exam": newExam})
	}
}

func DeleteExam(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		exams, err := content.GetExams(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exam"})
			return
		}

		filtered := exams[:0:0]
		for _, e := range exams {
			if e.ID != id {
				filtered = append(filtered, e)
			}
		}

		if err := content.SetExams(c.Request.Context(), filtered); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exam"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
