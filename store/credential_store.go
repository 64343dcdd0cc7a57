// Package store bọc kvstore thành hai kho nghiệp vụ: credential và session.
package store

import (
	"context"
	"errors"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/models"
)

const (
	KeyAdminCredentials = "fta_admin_credentials"
	KeyStudents         = "fta_students"
	KeyCourses          = "fta_courses"
	KeyExams            = "fta_exams"
	SessionKeyPrefix    = "fta_session_"
)

// CredentialStore lưu bản ghi admin (singleton) và danh sách học viên.
// Chỉ lưu trữ thuần, không validate.
type CredentialStore struct {
	kv kvstore.Store
}

func NewCredentialStore(kv kvstore.Store) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// GetAdmin trả về (nil, nil) khi chưa có bản ghi admin.
func (s *CredentialStore) GetAdmin(ctx context.Context) (*models.AdminCredential, error) {
	var creds models.AdminCredential
	err := kvstore.GetJSON(ctx, s.kv, KeyAdminCredentials, &creds)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *CredentialStore) SetAdmin(ctx context.Context, creds models.AdminCredential) error {
	return s.kv.Set(ctx, KeyAdminCredentials, creds)
}

// GetStudents trả về danh sách theo đúng thứ tự đã thêm; chưa có thì rỗng.
func (s *CredentialStore) GetStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := kvstore.GetJSON(ctx, s.kv, KeyStudents, &students)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []models.Student{}, nil
	}
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (s *CredentialStore) SetStudents(ctx context.Context, students []models.Student) error {
	return s.kv.Set(ctx, KeyStudents, students)
}
