package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/services"
	"github.com/favytech/fta-backend/store"
	"github.com/favytech/fta-backend/utils"
)

type AddStudentInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateStudentInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func GetStudents(creds *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := creds.GetStudents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"students": students})
	}
}

// AddStudent cấp id STU kế tiếp và gửi mail thông tin đăng nhập (không chặn luồng).
func AddStudent(creds *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddStudentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		students, err := creds.GetStudents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add student"})
			return
		}

		ids := make([]string, 0, len(students))
		for _, s := range students {
			ids = append(ids, s.ID)
		}

		newStudent := models.Student{
			ID:             nextID("STU", ids),
			Name:           input.Name,
			Email:          input.Email,
			Password:       input.Password,
			DateRegistered: time.Now().UTC().Format("2006-01-02"),
			Progress:       0,
		}

		students = append(students, newStudent)
		if err := creds.SetStudents(c.Request.Context(), students); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add student"})
			return
		}

		if os.Getenv("SMTP_EMAIL") != "" {
			go func(s models.Student, password string) {
				subject := "Your Favy Tech Academy account"
				body := `
				<h3>Hello ` + s.Name + `,</h3>
				<p>An account has been created for you on <b>Favy Tech Academy</b>.</p>
				<p><b>Student ID:</b> ` + s.ID + `<br>
				<b>Password:</b> ` + password + `</p>
				<p>Please sign in on the student portal to get started.</p>
				<hr>
				<p><i>This is an automated email, please do not reply.</i></p>
				`
				if err := utils.SendEmail(s.Email, subject, body); err != nil {
					log.Println("Lỗi gửi email:", err)
				}
			}(newStudent, input.Password)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "student": newStudent})
	}
}

func UpdateStudent(creds *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input UpdateStudentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		students, err := creds.GetStudents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
			return
		}

		for i := range students {
			if students[i].ID == id {
				students[i].Name = input.Name
				students[i].Email = input.Email
			}
		}

		if err := creds.SetStudents(c.Request.Context(), students); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func DeleteStudent(creds *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		students, err := creds.GetStudents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
			return
		}

		filtered := students[:0:0]
		for _, s := range students {
			if s.ID != id {
				filtered = append(filtered, s)
			}
		}

		if err := creds.SetStudents(c.Request.Context(), filtered); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ResetStudentPassword đặt lại mật khẩu và thu hồi mọi session của học viên đó.
func ResetStudentPassword(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input ResetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.ResetStudentPassword(c.Request.Context(), id, input.NewPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
