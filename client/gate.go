package client

import "github.com/favytech/fta-backend/models"

// Gate là authorization gate cho từng trang: chỉ cho render khi user cache
// tồn tại và đúng role; sai thì caller phải chuyển về trang login.
type Gate struct {
	monitor *SessionMonitor
}

func NewGate(monitor *SessionMonitor) *Gate {
	return &Gate{monitor: monitor}
}

// Allow kiểm tra user hiện tại có đúng role trang yêu cầu không.
func (g *Gate) Allow(required models.Role) bool {
	user := g.monitor.User()
	return user != nil && user.Role == required
}

// MustChangePassword đúng khi admin còn cờ requirePasswordChange:
// trang admin phải mở dialog đổi mật khẩu và không cho đóng tới khi
// ChangeAdminPassword thành công hạ cờ.
func (g *Gate) MustChangePassword() bool {
	user := g.monitor.User()
	return user != nil && user.Role == models.RoleAdmin && user.RequirePasswordChange
}
