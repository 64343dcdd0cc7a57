package models

type Role string

const (
	RoleAdmin   Role = "admin"   // Quản trị hệ thống
	RoleStudent Role = "student" // Học viên
)

// AdminCredential là bản ghi đăng nhập duy nhất của admin,
// lưu tại key fta_admin_credentials.
type AdminCredential struct {
	ID         string `json:"id"`
	Password   string `json:"password"`
	FirstLogin bool   `json:"firstLogin"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}
