package models

import "time"

// Session gắn một token mờ với người dùng, lưu tại key fta_session_<id>.
// Hết hạn sẽ bị dọn lazy ở lần đọc kế tiếp.
type Session struct {
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired kiểm tra theo đồng hồ tại thời điểm gọi.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
