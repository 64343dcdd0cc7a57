package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck trả trạng thái service và kết nối DB.
// db nil khi chạy store trong bộ nhớ (local/test) thì bỏ qua ping.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "ok",
			"message":   "Service is healthy",
			"timestamp": time.Now().Unix(),
			"db":        "ok",
		}

		if db == nil {
			response["db"] = "memory"
			c.JSON(http.StatusOK, response)
			return
		}

		sqlDB, err := db.DB()
		if err != nil {
			response["db"] = "error: cannot get DB instance"
			response["status"] = "degraded"
			c.JSON(http.StatusInternalServerError, response)
			return
		}

		if err := sqlDB.Ping(); err != nil {
			response["db"] = "error: cannot connect to DB"
			response["status"] = "degraded"
			c.JSON(http.StatusInternalServerError, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}
