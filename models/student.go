package models

// Student là học viên do admin tạo, id dạng STU001, STU002...
// Danh sách lưu tại key fta_students, giữ nguyên thứ tự thêm vào.
type Student struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	DateRegistered string `json:"dateRegistered"`
	Progress       int    `json:"progress"` // phần trăm hoàn thành 0-100
}
