package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"

	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/store"
)

// SessionDuration là cửa sổ sống của session, tính từ lúc login hoặc refresh.
const SessionDuration = 30 * time.Minute

// InvalidLoginMessage dùng chung cho mọi kiểu login sai (sai mật khẩu,
// id không tồn tại, chưa có bản ghi admin) để không lộ tài khoản nào tồn tại.
const InvalidLoginMessage = "This login is no longer valid. Please contact your administrator."

// IncorrectPasswordMessage trả về khi đổi mật khẩu admin với mật khẩu cũ sai.
const IncorrectPasswordMessage = "Current password is incorrect"

// LoginResult là kết quả của Login.
type LoginResult struct {
	Success               bool
	Message               string
	SessionID             string
	ExpiresAt             time.Time
	RequirePasswordChange bool            // chỉ có nghĩa với admin
	Student               *models.Student // chỉ có với student
}

// AuthService xác thực đăng nhập và quản lý vòng đời session.
// Store được inject nên backend lưu trữ thay được khi test.
type AuthService struct {
	creds    *store.CredentialStore
	sessions *store.SessionStore
	now      func() time.Time
}

func NewAuthService(creds *store.CredentialStore, sessions *store.SessionStore) *AuthService {
	return &AuthService{
		creds:    creds,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login so khớp id + password rồi cấp session mới hết hạn sau 30 phút.
// Lỗi store trả thẳng ra ngoài (đăng nhập fail closed).
func (s *AuthService) Login(ctx context.Context, id, password string, role models.Role) (*LoginResult, error) {
	if role == models.RoleAdmin {
		return s.loginAdmin(ctx, id, password)
	}
	return s.loginStudent(ctx, id, password)
}

func (s *AuthService) loginAdmin(ctx context.Context, id, password string) (*LoginResult, error) {
	creds, err := s.creds.GetAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return &LoginResult{Success: false, Message: InvalidLoginMessage}, nil
	}

	// Cả id lẫn password phải khớp chính xác
	if !secureEqual(creds.ID, id) || !secureEqual(creds.Password, password) {
		return &LoginResult{Success: false, Message: InvalidLoginMessage}, nil
	}

	sessionID, expiresAt, err := s.mintSession(ctx, id, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Success:               true,
		SessionID:             sessionID,
		ExpiresAt:             expiresAt,
		RequirePasswordChange: creds.FirstLogin,
	}, nil
}

func (s *AuthService) loginStudent(ctx context.Context, id, password string) (*LoginResult, error) {
	students, err := s.creds.GetStudents(ctx)
	if err != nil {
		return nil, err
	}

	var student *models.Student
	for i := range students {
		if students[i].ID == id {
			student = &students[i]
			break
		}
	}

	if student == nil || !secureEqual(student.Password, password) {
		return &LoginResult{Success: false, Message: InvalidLoginMessage}, nil
	}

	sessionID, expiresAt, err := s.mintSession(ctx, id, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Success:   true,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		Student:   student,
	}, nil
}

func (s *AuthService) mintSession(ctx context.Context, userID string, role models.Role) (string, time.Time, error) {
	sessionID := uuid.NewString()
	now := s.now()
	expiresAt := now.Add(SessionDuration)

	session := models.Session{
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Put(ctx, sessionID, session); err != nil {
		return "", time.Time{}, err
	}
	return sessionID, expiresAt, nil
}

// VerifySession kiểm tra session còn hiệu lực không. Session hết hạn
// nhưng còn nằm trong store bị xóa luôn tại đây (lazy expiry).
func (s *AuthService) VerifySession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// RefreshSession dời hạn session thêm 30 phút kể từ bây giờ.
// Session không tồn tại thì không tạo gì mới.
func (s *AuthService) RefreshSession(ctx context.Context, sessionID string) (bool, time.Time, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, time.Time{}, err
	}
	if session == nil {
		return false, time.Time{}, nil
	}

	session.ExpiresAt = s.now().Add(SessionDuration)
	if err := s.sessions.Put(ctx, sessionID, *session); err != nil {
		return false, time.Time{}, err
	}
	return true, session.ExpiresAt, nil
}

// ChangeAdminPassword đổi mật khẩu admin rồi thu hồi MỌI session role admin,
// kể cả session đang gọi. Các session student không bị đụng tới.
func (s *AuthService) ChangeAdminPassword(ctx context.Context, oldPassword, newPassword string) (bool, string, error) {
	creds, err := s.creds.GetAdmin(ctx)
	if err != nil {
		return false, "", err
	}
	if creds == nil {
		return false, "Admin credentials not found", nil
	}

	if !secureEqual(creds.Password, oldPassword) {
		return false, IncorrectPasswordMessage, nil
	}

	updated := models.AdminCredential{
		ID:         creds.ID,
		Password:   newPassword,
		FirstLogin: false,
		CreatedAt:  creds.CreatedAt,
		UpdatedAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.creds.SetAdmin(ctx, updated); err != nil {
		return false, "", err
	}

	if err := s.sweepSessions(ctx, func(sess models.Session) bool {
		return sess.Role == models.RoleAdmin
	}); err != nil {
		return false, "", err
	}
	return true, "Password changed successfully", nil
}

// ResetStudentPassword đặt lại mật khẩu một học viên rồi thu hồi mọi session
// có userId trùng. Id không tồn tại thì không đổi gì (giữ nguyên hợp đồng cũ).
func (s *AuthService) ResetStudentPassword(ctx context.Context, studentID, newPassword string) error {
	students, err := s.creds.GetStudents(ctx)
	if err != nil {
		return err
	}

	for i := range students {
		if students[i].ID == studentID {
			students[i].Password = newPassword
		}
	}
	if err := s.creds.SetStudents(ctx, students); err != nil {
		return err
	}

	return s.sweepSessions(ctx, func(sess models.Session) bool {
		return sess.UserID == studentID
	})
}

// Logout xóa session nếu có; gọi lặp lại vẫn thành công.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// sweepSessions xóa mọi session thỏa điều kiện match.
func (s *AuthService) sweepSessions(ctx context.Context, match func(models.Session) bool) error {
	entries, err := s.sessions.Scan(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !match(entry.Session) {
			continue
		}
		if err := s.sessions.DeleteKey(ctx, entry.Key); err != nil {
			return err
		}
	}
	return nil
}

// secureEqual so sánh chuỗi trong thời gian cố định.
func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
