package store

import (
	"context"
	"errors"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/models"
)

// ContentStore lưu nội dung hiển thị: khóa học và lịch thi.
// Không có ràng buộc gì ngoài chapter thuộc đúng một course.
type ContentStore struct {
	kv kvstore.Store
}

func NewContentStore(kv kvstore.Store) *ContentStore {
	return &ContentStore{kv: kv}
}

func (s *ContentStore) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := kvstore.GetJSON(ctx, s.kv, KeyCourses, &courses)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []models.Course{}, nil
	}
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *ContentStore) SetCourses(ctx context.Context, courses []models.Course) error {
	return s.kv.Set(ctx, KeyCourses, courses)
}

func (s *ContentStore) GetExams(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	err := kvstore.GetJSON(ctx, s.kv, KeyExams, &exams)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []models.Exam{}, nil
	}
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (s *ContentStore) SetExams(ctx context.Context, exams []models.Exam) error {
	return s.kv.Set(ctx, KeyExams, exams)
}
