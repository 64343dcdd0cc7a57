package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/services"
	"github.com/favytech/fta-backend/store"
)

// ====== INPUT STRUCTS ======
type LoginInput struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin student"`
}

type SessionInput struct {
	SessionID string `json:"sessionId"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ====== HANDLERS ======

// Login xác thực id + password theo role, cấp session 30 phút.
// Đăng nhập sai luôn trả 200 + success:false với message chung.
func Login(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := svc.Login(c.Request.Context(), input.ID, input.Password, models.Role(input.Role))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		if !result.Success {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": result.Message})
			return
		}

		if input.Role == string(models.RoleAdmin) {
			c.JSON(http.StatusOK, gin.H{
				"success":               true,
				"requirePasswordChange": result.RequirePasswordChange,
				"sessionId":             result.SessionID,
				"expiresAt":             result.ExpiresAt,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"student":   result.Student,
			"sessionId": result.SessionID,
			"expiresAt": result.ExpiresAt,
		})
	}
}

// VerifySession kiểm tra session; session hết hạn bị dọn ngay tại server.
func VerifySession(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.SessionID == "" {
			c.JSON(http.StatusOK, gin.H{"valid": false, "message": "No session ID provided"})
			return
		}

		valid, err := svc.VerifySession(c.Request.Context(), input.SessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session verification failed"})
			return
		}

		if !valid {
			c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Session not found or expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

// RefreshSession dời hạn session thêm 30 phút.
func RefreshSession(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ok, expiresAt, err := svc.RefreshSession(c.Request.Context(), input.SessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session refresh failed"})
			return
		}

		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "expiresAt": expiresAt})
	}
}

// ChangeAdminPassword đổi mật khẩu admin và thu hồi mọi session admin.
func ChangeAdminPassword(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ok, message, err := svc.ChangeAdminPassword(c.Request.Context(), input.OldPassword, input.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password change failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": ok, "message": message})
	}
}

// Logout xóa session, luôn trả success (idempotent).
func Logout(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.Logout(c.Request.Context(), input.SessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetAdminInfo trả phần không nhạy cảm của bản ghi admin (id, firstLogin).
func GetAdminInfo(creds *store.CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminCreds, err := creds.GetAdmin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch credentials"})
			return
		}
		if adminCreds == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Credentials not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":         adminCreds.ID,
			"firstLogin": adminCreds.FirstLogin,
		})
	}
}
