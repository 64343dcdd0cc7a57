package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/store"
	"github.com/favytech/fta-backend/utils"
)

// Giới hạn file e-book upload
const maxEbookSize = 50 << 20 // 50MB

type AddCourseInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	CoverImage  string `json:"coverImage"`
}

type UpdatePDFInput struct {
	PDFLink string `json:"pdfLink" binding:"required"`
}

type AddChapterInput struct {
	Number  string `json:"number" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateVideoInput struct {
	VideoURL string `json:"videoUrl" binding:"required"`
}

func GetCourses(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": courses})
	}
}

func AddCourse(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddCourseInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add course"})
			return
		}

		ids := make([]string, 0, len(courses))
		for _, course := range courses {
			ids = append(ids, course.ID)
		}

		newCourse := models.Course{
			ID:          nextID("COURSE", ids),
			Title:       input.Title,
			Description: input.Description,
			CoverImage:  input.CoverImage,
			Chapters:    []models.Chapter{},
			CreatedAt:   nowDateTime(),
		}

		courses = append(courses, newCourse)
		if err := content.SetCourses(c.Request.Context(), courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "course": newCourse})
	}
}

func DeleteCourse(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
			return
		}

		filtered := courses[:0:0]
		for _, course := range courses {
			if course.ID != id {
				filtered = append(filtered, course)
			}
		}

		if err := content.SetCourses(c.Request.Context(), filtered); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// UpdateCoursePDF gắn link tải e-book có sẵn vào khóa học.
func UpdateCoursePDF(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input UpdatePDFInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}

		for i := range courses {
			if courses[i].ID == id {
				courses[i].PDFDownloadLink = input.PDFLink
			}
		}

		if err := content.SetCourses(c.Request.Context(), courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// UploadCoursePDF nhận file e-book multipart, kiểm tra PDF hợp lệ,
// đẩy lên Supabase Storage rồi gắn public URL vào khóa học.
func UploadCoursePDF(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file upload"})
			return
		}
		if fileHeader.Size > maxEbookSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File quá lớn"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}

		pages, err := utils.ValidatePDF(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		publicURL, err := utils.UploadEbookPDF(data, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload PDF"})
			return
		}

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}
		for i := range courses {
			if courses[i].ID == id {
				courses[i].PDFDownloadLink = publicURL
			}
		}
		if err := content.SetCourses(c.Request.Context(), courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "pdfDownloadLink": publicURL, "pages": pages})
	}
}

func AddChapter(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Param("id")

		var input AddChapterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newChapter := models.Chapter{
			ID:      "CH" + input.Number,
			Number:  input.Number,
			Title:   input.Title,
			Content: input.Content,
		}

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add chapter"})
			return
		}

		for i := range courses {
			if courses[i].ID == courseID {
				courses[i].Chapters = append(courses[i].Chapters, newChapter)
			}
		}

		if err := content.SetCourses(c.Request.Context(), courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add chapter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "chapter": newChapter})
	}
}

func UpdateChapterVideo(content *store.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Param("id")
		chapterID := c.Param("chapterId")

		var input UpdateVideoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		courses, err := content.GetCourses(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
			return
		}

		for i := range courses {
			if courses[i].ID != courseID {
				continue
			}
			for j := range courses[i].Chapters {
				if courses[i].Chapters[j].ID == chapterID {
					courses[i].Chapters[j].VideoURL = input.VideoURL
				}
			}
		}

		if err := content.SetCourses(c.Request.Context(), courses); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
