package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/favytech/fta-backend/controllers"
	"github.com/favytech/fta-backend/middleware"
	"github.com/favytech/fta-backend/services"
	"github.com/favytech/fta-backend/store"
)

// Deps gom các phụ thuộc được inject vào router (không dùng global).
type Deps struct {
	Auth       *services.AuthService
	Creds      *store.CredentialStore
	Content    *store.ContentStore
	DB         *gorm.DB // nil khi dùng memory store
	AnonSecret string
}

func SetupRouter(r *gin.Engine, deps Deps) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck(deps.DB))

	api := r.Group("/api")
	api.Use(middleware.RequireAnonKey(deps.AnonSecret))

	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.Login(deps.Auth))
		auth.POST("/verify-session", controllers.VerifySession(deps.Auth))
		auth.POST("/refresh-session", controllers.RefreshSession(deps.Auth))
		auth.POST("/change-admin-password", controllers.ChangeAdminPassword(deps.Auth))
		auth.POST("/logout", controllers.Logout(deps.Auth))
		auth.GET("/admin", controllers.GetAdminInfo(deps.Creds))
	}

	students := api.Group("/students")
	{
		students.GET("", controllers.GetStudents(deps.Creds))
		students.POST("", controllers.AddStudent(deps.Creds))
		students.PUT("/:id", controllers.UpdateStudent(deps.Creds))
		students.DELETE("/:id", controllers.DeleteStudent(deps.Creds))
		students.POST("/:id/reset-password", controllers.ResetStudentPassword(deps.Auth))
	}

	courses := api.Group("/courses")
	{
		courses.GET("", controllers.GetCourses(deps.Content))
		courses.POST("", controllers.AddCourse(deps.Content))
		courses.DELETE("/:id", controllers.DeleteCourse(deps.Content))
		courses.PUT("/:id/pdf", controllers.UpdateCoursePDF(deps.Content))
		courses.POST("/:id/pdf", controllers.UploadCoursePDF(deps.Content))
		courses.POST("/:id/chapters", controllers.AddChapter(deps.Content))
		courses.PUT("/:id/chapters/:chapterId/video", controllers.UpdateChapterVideo(deps.Content))
	}

	exams := api.Group("/exams")
	{
		exams.GET("", controllers.GetExams(deps.Content))
		exams.POST("", controllers.AddExam(deps.Content))
		exams.DELETE("/:id", controllers.DeleteExam(deps.Content))
	}

	return r
}
