// Package kvstore cung cấp kho key-value hẹp cho toàn bộ dữ liệu FTA.
// Backend có thể là Postgres/SQLite (gorm) hoặc map trong bộ nhớ.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound trả về khi key không tồn tại.
var ErrNotFound = errors.New("kvstore: key not found")

// Entry là một cặp key/value trả về từ GetByPrefix.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store là interface hẹp để backend lưu trữ thay được mà không
// đụng tới tầng service. Mọi lỗi lưu trữ đều trả thẳng cho caller.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// GetJSON đọc key và unmarshal vào out.
func GetJSON(ctx context.Context, s Store, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
