package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/favytech/fta-backend/models"
)

const (
	defaultPollInterval    = 60 * time.Second
	defaultRefreshInterval = 5 * time.Minute
)

// User là thông tin người dùng cache tại client để gate đọc.
type User struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Role                  models.Role `json:"role"`
	Email                 string      `json:"email,omitempty"`
	Progress              int         `json:"progress,omitempty"`
	RequirePasswordChange bool        `json:"requirePasswordChange,omitempty"`
}

// sessionState là phần được ghi xuống file state (tương đương localStorage).
type sessionState struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// SessionMonitor giữ session phía client và chạy hai timer độc lập:
// poll hết hạn mỗi phút (thuần local) và keepalive refresh mỗi 5 phút.
// Timer chạy từ lúc login/restore thành công tới lúc logout.
type SessionMonitor struct {
	api       *Client
	statePath string

	// Chỉnh được trong test; đặt trước khi Start.
	PollInterval    time.Duration
	RefreshInterval time.Duration

	// OnLogout được gọi sau mỗi lần bị logout (hết hạn, bị thu hồi, chủ động).
	OnLogout func()

	mu      sync.Mutex
	state   sessionState
	stop    chan struct{}
	running bool
}

func NewSessionMonitor(api *Client, statePath string) *SessionMonitor {
	return &SessionMonitor{
		api:             api,
		statePath:       statePath,
		PollInterval:    defaultPollInterval,
		RefreshInterval: defaultRefreshInterval,
	}
}

// Login đăng nhập với role từ form, cache session + user và bật timer.
func (m *SessionMonitor) Login(ctx context.Context, id, password string, role models.Role) (bool, string, error) {
	resp, err := m.api.Login(ctx, id, password, role)
	if err != nil {
		return false, "", err
	}
	if !resp.Success {
		return false, resp.Message, nil
	}

	user := &User{ID: id, Name: "Admin", Role: models.RoleAdmin, RequirePasswordChange: resp.RequirePasswordChange}
	if resp.Student != nil {
		user = &User{
			ID:       resp.Student.ID,
			Name:     resp.Student.Name,
			Role:     models.RoleStudent,
			Email:    resp.Student.Email,
			Progress: resp.Student.Progress,
		}
	}

	m.mu.Lock()
	m.state = sessionState{SessionID: resp.SessionID, ExpiresAt: resp.ExpiresAt, User: user}
	m.persistLocked()
	m.mu.Unlock()

	m.startTimers()
	return true, "", nil
}

// Restore nạp lại state từ file rồi đối chiếu với server ngay lập tức,
// xử lý trường hợp session bị thu hồi trong lúc client tắt.
func (m *SessionMonitor) Restore(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(m.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		// File hỏng: coi như chưa đăng nhập
		m.clearState()
		return false, nil
	}
	if state.SessionID == "" || state.User == nil {
		return false, nil
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	valid, err := m.api.VerifySession(ctx, state.SessionID)
	if err != nil || !valid {
		m.forceLogout()
		return false, err
	}

	m.startTimers()
	return true, nil
}

// Logout gọi server xóa session (best effort) rồi xóa cache và dừng timer.
func (m *SessionMonitor) Logout(ctx context.Context) {
	m.mu.Lock()
	sessionID := m.state.SessionID
	m.mu.Unlock()

	if sessionID != "" {
		_ = m.api.Logout(ctx, sessionID)
	}
	m.forceLogout()
}

// ChangeAdminPassword đổi mật khẩu admin; thành công thì hạ cờ
// requirePasswordChange trong user cache (server đã thu hồi session admin,
// caller phải đăng nhập lại).
func (m *SessionMonitor) ChangeAdminPassword(ctx context.Context, oldPassword, newPassword string) (bool, string, error) {
	ok, message, err := m.api.ChangeAdminPassword(ctx, oldPassword, newPassword)
	if err != nil || !ok {
		return ok, message, err
	}

	m.mu.Lock()
	if m.state.User != nil {
		m.state.User.RequirePasswordChange = false
		m.persistLocked()
	}
	m.mu.Unlock()
	return true, message, nil
}

// User trả về bản sao user đang cache, nil nếu chưa đăng nhập.
func (m *SessionMonitor) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.User == nil {
		return nil
	}
	u := *m.state.User
	return &u
}

// SessionID trả về session đang cache, rỗng nếu chưa đăng nhập.
func (m *SessionMonitor) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SessionID
}

// ExpiresAt trả về hạn session đang cache.
func (m *SessionMonitor) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ExpiresAt
}

func (m *SessionMonitor) startTimers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.stop = make(chan struct{})
	m.running = true
	go m.run(m.stop)
}

// run sở hữu cả hai timer trong một goroutine; state chỉ sửa qua mutex.
func (m *SessionMonitor) run(stop chan struct{}) {
	poll := time.NewTicker(m.PollInterval)
	defer poll.Stop()
	keepalive := time.NewTicker(m.RefreshInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-stop:
			return
		case <-poll.C:
			m.checkExpiry()
		case <-keepalive.C:
			m.refresh()
		}
	}
}

// checkExpiry so hạn cache với đồng hồ local, không round trip.
func (m *SessionMonitor) checkExpiry() {
	m.mu.Lock()
	expired := m.state.SessionID != "" && time.Now().After(m.state.ExpiresAt)
	m.mu.Unlock()

	if expired {
		m.forceLogout()
	}
}

// refresh gọi server dời hạn session; lỗi mạng thì giữ nguyên cache,
// chờ poll kế tiếp hoặc verify ở lần load sau bắt trạng thái thật.
func (m *SessionMonitor) refresh() {
	m.mu.Lock()
	sessionID := m.state.SessionID
	m.mu.Unlock()
	if sessionID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	ok, expiresAt, err := m.api.RefreshSession(ctx, sessionID)
	if err != nil || !ok {
		return
	}

	m.mu.Lock()
	if m.state.SessionID == sessionID {
		m.state.ExpiresAt = expiresAt
		m.persistLocked()
	}
	m.mu.Unlock()
}

// forceLogout xóa cache, dừng timer và báo cho gate, không gọi server.
func (m *SessionMonitor) forceLogout() {
	m.clearState()

	m.mu.Lock()
	if m.running {
		close(m.stop)
		m.running = false
	}
	onLogout := m.OnLogout
	m.mu.Unlock()

	if onLogout != nil {
		onLogout()
	}
}

func (m *SessionMonitor) clearState() {
	m.mu.Lock()
	m.state = sessionState{}
	_ = os.Remove(m.statePath)
	m.mu.Unlock()
}

func (m *SessionMonitor) persistLocked() {
	data, err := json.Marshal(m.state)
	if err != nil {
		return
	}
	_ = os.WriteFile(m.statePath, data, 0o600)
}
