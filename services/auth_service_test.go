package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/store"
)

func newTestService(t *testing.T) (*AuthService, *store.SessionStore, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	if err := kv.Set(ctx, store.KeyAdminCredentials, models.AdminCredential{
		ID:         "ADMIN001",
		Password:   "admin123",
		FirstLogin: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, store.KeyStudents, []models.Student{
		{ID: "STU001", Name: "John Doe", Email: "john@example.com", Password: "student123", Progress: 45},
		{ID: "STU002", Name: "Jane Smith", Email: "jane@example.com", Password: "student123", Progress: 78},
	}); err != nil {
		t.Fatal(err)
	}

	sessions := store.NewSessionStore(kv)
	svc := NewAuthService(store.NewCredentialStore(kv), sessions)
	return svc, sessions, kv
}

func TestLoginAdminSuccess(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	before := time.Now()
	result, err := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if result.SessionID == "" {
		t.Error("expected a session id")
	}
	if !result.RequirePasswordChange {
		t.Error("first login should require password change")
	}

	want := before.Add(SessionDuration)
	if result.ExpiresAt.Before(want.Add(-5*time.Second)) || result.ExpiresAt.After(want.Add(5*time.Second)) {
		t.Errorf("expiresAt = %v, want ~%v", result.ExpiresAt, want)
	}
}

func TestLoginStudentSuccess(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if result.Student == nil || result.Student.Name != "John Doe" {
		t.Errorf("expected student record in result, got %+v", result.Student)
	}
}

func TestLoginSessionIDsUnique(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		result, err := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
		if err != nil || !result.Success {
			t.Fatalf("login %d failed: %v %+v", i, err, result)
		}
		if seen[result.SessionID] {
			t.Fatalf("duplicate session id %q", result.SessionID)
		}
		seen[result.SessionID] = true
	}
}

func TestLoginFailureUniformMessage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		id, pass string
		role     models.Role
	}{
		{"wrong admin password", "ADMIN001", "nope", models.RoleAdmin},
		{"unknown admin id", "ADMIN999", "admin123", models.RoleAdmin},
		{"wrong student password", "STU001", "nope", models.RoleStudent},
		{"unknown student id", "STU999", "student123", models.RoleStudent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tc.id, tc.pass, tc.role)
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if result.Success {
				t.Fatal("expected failure")
			}
			if result.Message != InvalidLoginMessage {
				t.Errorf("message = %q, want the uniform invalid-login message", result.Message)
			}
			if result.SessionID != "" {
				t.Error("failed login must not mint a session")
			}
		})
	}
}

func TestLoginMissingAdminRecordFailsClosed(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	svc := NewAuthService(store.NewCredentialStore(kv), store.NewSessionStore(kv))

	result, err := svc.Login(context.Background(), "ADMIN001", "admin123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Success || result.Message != InvalidLoginMessage {
		t.Errorf("expected uniform failure, got %+v", result)
	}
}

func TestVerifySessionLazyCleanup(t *testing.T) {
	svc, sessionStore, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	if err != nil || !result.Success {
		t.Fatalf("login failed: %v", err)
	}

	valid, err := svc.VerifySession(ctx, result.SessionID)
	if err != nil || !valid {
		t.Fatalf("fresh session should verify, got %v %v", valid, err)
	}

	// Đẩy đồng hồ qua hạn
	svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }

	valid, err = svc.VerifySession(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if valid {
		t.Fatal("expired session must be invalid")
	}

	// Lazy expiry: bản ghi phải bị xóa khỏi store
	session, err := sessionStore.Get(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Error("expired session should have been deleted on verify")
	}
}

func TestVerifySessionAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)

	valid, err := svc.VerifySession(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if valid {
		t.Error("absent session must be invalid")
	}
}

func TestRefreshSessionExtendsExpiry(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	result, err := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	if err != nil || !result.Success {
		t.Fatalf("login failed: %v", err)
	}
	if !result.ExpiresAt.Equal(t0.Add(30 * time.Minute)) {
		t.Errorf("expiresAt = %v, want t+30m", result.ExpiresAt)
	}

	// Refresh ở phút thứ 6 dời hạn về t+36m
	svc.now = func() time.Time { return t0.Add(6 * time.Minute) }
	ok, expiresAt, err := svc.RefreshSession(ctx, result.SessionID)
	if err != nil || !ok {
		t.Fatalf("refresh failed: %v", err)
	}
	if !expiresAt.Equal(t0.Add(36 * time.Minute)) {
		t.Errorf("refreshed expiresAt = %v, want t+36m", expiresAt)
	}
	if !expiresAt.After(result.ExpiresAt) {
		t.Error("refresh must strictly increase expiry")
	}

	// Phút 40: quá hạn t+36m, verify phải fail
	svc.now = func() time.Time { return t0.Add(40 * time.Minute) }
	valid, err := svc.VerifySession(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("VerifySession: %v", err)
	}
	if valid {
		t.Error("session past refreshed expiry must be invalid")
	}
}

func TestRefreshSessionMissing(t *testing.T) {
	svc, sessionStore, _ := newTestService(t)
	ctx := context.Background()

	ok, _, err := svc.RefreshSession(ctx, "no-such-session")
	if err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	if ok {
		t.Fatal("refresh of a missing session must fail")
	}

	// Không được tạo gì mới
	entries, err := sessionStore.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("refresh must not create sessions, found %d", len(entries))
	}
}

func TestChangeAdminPasswordSweepsAdminSessions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	admin1, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	admin2, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	student, _ := svc.Login(ctx, "STU001", "student123", models.RoleStudent)

	ok, _, err := svc.ChangeAdminPassword(ctx, "admin123", "newpass1")
	if err != nil {
		t.Fatalf("ChangeAdminPassword: %v", err)
	}
	if !ok {
		t.Fatal("expected password change to succeed")
	}

	// Mọi session admin bị thu hồi, kể cả session "đang dùng"
	for _, sid := range []string{admin1.SessionID, admin2.SessionID} {
		valid, _ := svc.VerifySession(ctx, sid)
		if valid {
			t.Errorf("admin session %s should have been revoked", sid)
		}
	}

	// Session student không bị đụng
	valid, _ := svc.VerifySession(ctx, student.SessionID)
	if !valid {
		t.Error("student session must survive an admin password change")
	}
}

func TestChangeAdminPasswordWrongOld(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	admin, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)

	ok, message, err := svc.ChangeAdminPassword(ctx, "wrong", "newpass1")
	if err != nil {
		t.Fatalf("ChangeAdminPassword: %v", err)
	}
	if ok {
		t.Fatal("expected failure with wrong old password")
	}
	if message != IncorrectPasswordMessage {
		t.Errorf("message = %q", message)
	}

	// Không đổi gì: login cũ vẫn chạy, session cũ còn sống
	result, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	if !result.Success {
		t.Error("old password must still work after a failed change")
	}
	valid, _ := svc.VerifySession(ctx, admin.SessionID)
	if !valid {
		t.Error("sessions must not be swept on a failed change")
	}
}

func TestFirstLoginScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	if !first.RequirePasswordChange {
		t.Fatal("default credentials must require a password change")
	}

	ok, _, err := svc.ChangeAdminPassword(ctx, "admin123", "newpass1")
	if err != nil || !ok {
		t.Fatalf("change failed: %v", err)
	}

	old, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	if old.Success {
		t.Error("old password must stop working")
	}

	fresh, _ := svc.Login(ctx, "ADMIN001", "newpass1", models.RoleAdmin)
	if !fresh.Success {
		t.Fatal("new password must work")
	}
	if fresh.RequirePasswordChange {
		t.Error("requirePasswordChange must be cleared after the change")
	}
}

func TestResetStudentPasswordSweepsOnlyThatStudent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	s1a, _ := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	s1b, _ := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	s2, _ := svc.Login(ctx, "STU002", "student123", models.RoleStudent)
	admin, _ := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)

	if err := svc.ResetStudentPassword(ctx, "STU001", "freshpass"); err != nil {
		t.Fatalf("ResetStudentPassword: %v", err)
	}

	for _, sid := range []string{s1a.SessionID, s1b.SessionID} {
		valid, _ := svc.VerifySession(ctx, sid)
		if valid {
			t.Errorf("session %s of STU001 should have been revoked", sid)
		}
	}
	for _, sid := range []string{s2.SessionID, admin.SessionID} {
		valid, _ := svc.VerifySession(ctx, sid)
		if !valid {
			t.Errorf("session %s of another identity must survive", sid)
		}
	}

	// Mật khẩu mới có hiệu lực, mật khẩu cũ thì không
	oldLogin, _ := svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	if oldLogin.Success {
		t.Error("old student password must stop working")
	}
	newLogin, _ := svc.Login(ctx, "STU001", "freshpass", models.RoleStudent)
	if !newLogin.Success {
		t.Error("new student password must work")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc, sessionStore, _ := newTestService(t)
	ctx := context.Background()

	result, _ := svc.Login(ctx, "STU001", "student123", models.RoleStudent)

	if err := svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	session, err := sessionStore.Get(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Error("no session record may remain after logout")
	}
}

// stubStore mô phỏng backend lưu trữ bằng function field, dùng để ép lỗi.
type stubStore struct {
	get         func(ctx context.Context, key string) (json.RawMessage, error)
	set         func(ctx context.Context, key string, value any) error
	del         func(ctx context.Context, key string) error
	getByPrefix func(ctx context.Context, prefix string) ([]kvstore.Entry, error)
}

var _ kvstore.Store = (*stubStore)(nil)

func (s *stubStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	return s.get(ctx, key)
}

func (s *stubStore) Set(ctx context.Context, key string, value any) error {
	return s.set(ctx, key, value)
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	return s.del(ctx, key)
}

func (s *stubStore) GetByPrefix(ctx context.Context, prefix string) ([]kvstore.Entry, error) {
	return s.getByPrefix(ctx, prefix)
}

var errStoreDown = errors.New("store down")

func newFailingService() *AuthService {
	kv := &stubStore{
		get:         func(context.Context, string) (json.RawMessage, error) { return nil, errStoreDown },
		set:         func(context.Context, string, any) error { return errStoreDown },
		del:         func(context.Context, string) error { return errStoreDown },
		getByPrefix: func(context.Context, string) ([]kvstore.Entry, error) { return nil, errStoreDown },
	}
	return NewAuthService(store.NewCredentialStore(kv), store.NewSessionStore(kv))
}

func TestLoginStoreFailureFailsClosed(t *testing.T) {
	svc := newFailingService()
	ctx := context.Background()

	// Lỗi lưu trữ phải propagate ra ngoài, không được đổi thành success:false
	result, err := svc.Login(ctx, "ADMIN001", "admin123", models.RoleAdmin)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("admin login err = %v, want errStoreDown", err)
	}
	if result != nil {
		t.Errorf("admin login result = %+v, want nil", result)
	}

	result, err = svc.Login(ctx, "STU001", "student123", models.RoleStudent)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("student login err = %v, want errStoreDown", err)
	}
	if result != nil {
		t.Errorf("student login result = %+v, want nil", result)
	}
}

func TestVerifySessionStoreFailure(t *testing.T) {
	svc := newFailingService()

	valid, err := svc.VerifySession(context.Background(), "some-session")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v, want errStoreDown", err)
	}
	if valid {
		t.Error("session must not validate when the store is down")
	}
}

func TestChangeAdminPasswordStoreFailure(t *testing.T) {
	svc := newFailingService()

	ok, msg, err := svc.ChangeAdminPassword(context.Background(), "admin123", "newpass1")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v, want errStoreDown", err)
	}
	if ok || msg != "" {
		t.Errorf("ok=%v msg=%q, want failure with no message", ok, msg)
	}
}
