package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/utils"
)

// RequireAnonKey chặn mọi request không mang anon key hợp lệ.
// Key là một JWT ký sẵn phát chung cho client (kiểu Supabase), không theo
// từng người dùng; phân quyền theo role nằm ở phía client (authorization gate).
func RequireAnonKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu Authorization header"})
			c.Abort()
			return
		}

		// Tách token khỏi chuỗi "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header không hợp lệ"})
			c.Abort()
			return
		}

		if err := utils.VerifyAnonKey(secret, parts[1]); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Anon key không hợp lệ"})
			c.Abort()
			return
		}

		c.Next()
	}
}
