package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/models"
)

// SessionEntry là một bản ghi session kèm key đầy đủ, dùng khi quét
// toàn bộ session để thu hồi hàng loạt.
type SessionEntry struct {
	Key     string
	Session models.Session
}

// SessionStore lưu session theo key fta_session_<sessionId>.
type SessionStore struct {
	kv kvstore.Store
}

func NewSessionStore(kv kvstore.Store) *SessionStore {
	return &SessionStore{kv: kv}
}

func sessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

// Get trả về (nil, nil) khi session không tồn tại.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	err := kvstore.GetJSON(ctx, s.kv, sessionKey(sessionID), &session)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) Put(ctx context.Context, sessionID string, session models.Session) error {
	return s.kv.Set(ctx, sessionKey(sessionID), session)
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionKey(sessionID))
}

// Scan liệt kê mọi session đang lưu. Bản ghi hỏng bị bỏ qua.
func (s *SessionStore) Scan(ctx context.Context) ([]SessionEntry, error) {
	raw, err := s.kv.GetByPrefix(ctx, SessionKeyPrefix)
	if err != nil {
		return nil, err
	}

	entries := make([]SessionEntry, 0, len(raw))
	for _, e := range raw {
		var session models.Session
		if err := json.Unmarshal(e.Value, &session); err != nil {
			continue
		}
		entries = append(entries, SessionEntry{Key: e.Key, Session: session})
	}
	return entries, nil
}

// DeleteKey xóa theo key đầy đủ từ Scan.
func (s *SessionStore) DeleteKey(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}
