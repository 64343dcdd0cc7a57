package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/services"
	"github.com/favytech/fta-backend/store"
	"github.com/favytech/fta-backend/utils"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := kvstore.NewMemoryStore()
	if err := services.SeedDefaults(context.Background(), kv); err != nil {
		t.Fatalf("seed: %v", err)
	}

	creds := store.NewCredentialStore(kv)
	r := SetupRouter(gin.New(), Deps{
		Auth:       services.NewAuthService(creds, store.NewSessionStore(kv)),
		Creds:      creds,
		Content:    store.NewContentStore(kv),
		AnonSecret: testSecret,
	})

	anonKey, err := utils.GenerateAnonKey(testSecret)
	if err != nil {
		t.Fatalf("GenerateAnonKey: %v", err)
	}
	return r, anonKey
}

func doJSON(t *testing.T, r *gin.Engine, anonKey, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+anonKey)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestAnonKeyRequired(t *testing.T) {
	r, anonKey := newTestRouter(t)

	// Không có key
	w, _ := doJSON(t, r, "", http.MethodGet, "/api/students", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", w.Code)
	}

	// Key ký bằng secret khác
	badKey, _ := utils.GenerateAnonKey("other-secret")
	w, _ = doJSON(t, r, badKey, http.MethodGet, "/api/students", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad key: status = %d, want 401", w.Code)
	}

	// Key hợp lệ
	w, _ = doJSON(t, r, anonKey, http.MethodGet, "/api/students", nil)
	if w.Code != http.StatusOK {
		t.Errorf("good key: status = %d, want 200", w.Code)
	}
}

func TestHealthAndPingSkipAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, "", http.MethodGet, "/ping", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/ping status = %d", w.Code)
	}
	w, body := doJSON(t, r, "", http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/health status = %d", w.Code)
	}
	if body["db"] != "memory" {
		t.Errorf("health db = %v", body["db"])
	}
}

func TestLoginWireContract(t *testing.T) {
	r, anonKey := newTestRouter(t)

	// Admin mặc định: requirePasswordChange = true
	w, body := doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "ADMIN001", "password": "admin123", "role": "admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["success"] != true || body["requirePasswordChange"] != true {
		t.Errorf("unexpected admin login body: %v", body)
	}
	if body["sessionId"] == "" || body["expiresAt"] == nil {
		t.Errorf("missing session fields: %v", body)
	}

	// Student: trả kèm bản ghi student
	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "STU001", "password": "student123", "role": "student",
	})
	if body["success"] != true {
		t.Fatalf("student login failed: %v", body)
	}
	student, ok := body["student"].(map[string]any)
	if !ok || student["name"] != "John Doe" {
		t.Errorf("unexpected student payload: %v", body["student"])
	}

	// Sai mật khẩu: 200 + success:false + message chung
	w, body = doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "STU001", "password": "wrong", "role": "student",
	})
	if w.Code != http.StatusOK {
		t.Errorf("failed login status = %d, want 200", w.Code)
	}
	if body["success"] != false || body["message"] != services.InvalidLoginMessage {
		t.Errorf("unexpected failure body: %v", body)
	}
}

func TestVerifyAndLogoutFlow(t *testing.T) {
	r, anonKey := newTestRouter(t)

	_, loginBody := doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "STU001", "password": "student123", "role": "student",
	})
	sessionID, _ := loginBody["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("no session id")
	}

	_, body := doJSON(t, r, anonKey, http.MethodPost, "/api/auth/verify-session", map[string]string{"sessionId": sessionID})
	if body["valid"] != true {
		t.Errorf("fresh session invalid: %v", body)
	}

	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/auth/logout", map[string]string{"sessionId": sessionID})
	if body["success"] != true {
		t.Errorf("logout failed: %v", body)
	}

	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/auth/verify-session", map[string]string{"sessionId": sessionID})
	if body["valid"] != false {
		t.Errorf("session must be invalid after logout: %v", body)
	}
}

func TestStudentCRUD(t *testing.T) {
	r, anonKey := newTestRouter(t)

	// Seed có STU001, STU002 → học viên mới là STU003
	_, body := doJSON(t, r, anonKey, http.MethodPost, "/api/students", map[string]string{
		"name": "Ada Obi", "email": "ada@example.com", "password": "secret1",
	})
	student, _ := body["student"].(map[string]any)
	if student["id"] != "STU003" {
		t.Errorf("new id = %v, want STU003", student["id"])
	}
	if student["progress"] != float64(0) {
		t.Errorf("new student progress = %v, want 0", student["progress"])
	}

	// Xóa STU001 rồi thêm tiếp: id phải là STU004, không trùng lại STU003
	doJSON(t, r, anonKey, http.MethodDelete, "/api/students/STU001", nil)
	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/students", map[string]string{
		"name": "Ben Eze", "email": "ben@example.com", "password": "secret1",
	})
	student, _ = body["student"].(map[string]any)
	if student["id"] != "STU004" {
		t.Errorf("id after delete = %v, want STU004", student["id"])
	}

	// Cập nhật hồ sơ
	doJSON(t, r, anonKey, http.MethodPut, "/api/students/STU002", map[string]string{
		"name": "Jane S.", "email": "jane.s@example.com",
	})
	_, body = doJSON(t, r, anonKey, http.MethodGet, "/api/students", nil)
	students, _ := body["students"].([]any)
	found := false
	for _, raw := range students {
		s, _ := raw.(map[string]any)
		if s["id"] == "STU002" {
			found = true
			if s["name"] != "Jane S." || s["email"] != "jane.s@example.com" {
				t.Errorf("update not applied: %v", s)
			}
		}
		if s["id"] == "STU001" {
			t.Error("STU001 should have been deleted")
		}
	}
	if !found {
		t.Error("STU002 missing from list")
	}
}

func TestResetStudentPasswordRevokesSessions(t *testing.T) {
	r, anonKey := newTestRouter(t)

	_, loginBody := doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "STU001", "password": "student123", "role": "student",
	})
	sessionID, _ := loginBody["sessionId"].(string)

	doJSON(t, r, anonKey, http.MethodPost, "/api/students/STU001/reset-password", map[string]string{
		"newPassword": "brandnew1",
	})

	_, body := doJSON(t, r, anonKey, http.MethodPost, "/api/auth/verify-session", map[string]string{"sessionId": sessionID})
	if body["valid"] != false {
		t.Errorf("session must be revoked after reset: %v", body)
	}

	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/auth/login", map[string]string{
		"id": "STU001", "password": "brandnew1", "role": "student",
	})
	if body["success"] != true {
		t.Errorf("new password must work: %v", body)
	}
}

func TestCourseAndChapterEndpoints(t *testing.T) {
	r, anonKey := newTestRouter(t)

	// Seed có COURSE001 với 14 chương
	_, body := doJSON(t, r, anonKey, http.MethodGet, "/api/courses", nil)
	courses, _ := body["courses"].([]any)
	if len(courses) != 1 {
		t.Fatalf("expected 1 seeded course, got %d", len(courses))
	}

	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/courses", map[string]string{
		"title": "Scratch Games", "description": "Build games in Scratch",
	})
	course, _ := body["course"].(map[string]any)
	if course["id"] != "COURSE002" {
		t.Errorf("course id = %v", course["id"])
	}

	_, body = doJSON(t, r, anonKey, http.MethodPost, "/api/courses/COURSE002/chapters", map[string]string{
		"number": "1.1", "title": "Getting Started", "content": "Open scratch.mit.edu",
	})
	chapter, _ := body["chapter"].(map[string]any)
	if chapter["id"] != "CH1.1" {
		t.Errorf("chapter id = %v", chapter["id"])
	}

	doJSON(t, r, anonKey, http.MethodPut, "/api/courses/COURSE002/chapters/CH1.1/video", map[string]string{
		"videoUrl": "https://videos.example.com/ch11.mp4",
	})
	doJSON(t, r, anonKey, http.MethodPut, "/api/courses/COURSE002/pdf", map[string]string{
		"pdfLink": "https://files.example.com/scratch.pdf",
	})

	_, body = doJSON(t, r, anonKey, http.MethodGet, "/api/courses", nil)
	courses, _ = body["courses"].([]any)
	for _, raw := range courses {
		c, _ := raw.(map[string]any)
		if c["id"] != "COURSE002" {
			continue
		}
		if c["pdfDownloadLink"] != "https://files.example.com/scratch.pdf" {
			t.Errorf("pdf link not set: %v", c["pdfDownloadLink"])
		}
		chapters, _ := c["chapters"].([]any)
		if len(chapters) != 1 {
			t.Fatalf("expected 1 chapter, got %d", len(chapters))
		}
		ch, _ := chapters[0].(map[string]any)
		if ch["videoUrl"] != "https://videos.example.com/ch11.mp4" {
			t.Errorf("video url not set: %v", ch["videoUrl"])
		}
	}
}

func TestExamEndpoints(t *testing.T) {
	r, anonKey := newTestRouter(t)

	_, body := doJSON(t, r, anonKey, http.MethodPost, "/api/exams", map[string]string{
		"title": "AI Basics Quiz", "date": "2026-09-15", "time": "10:00",
		"formLink": "https://forms.example.com/ai-basics",
	})
	exam, _ := body["exam"].(map[string]any)
	if exam["id"] != "EXAM001" {
		t.Errorf("exam id = %v", exam["id"])
	}

	doJSON(t, r, anonKey, http.MethodDelete, "/api/exams/EXAM001", nil)
	_, body = doJSON(t, r, anonKey, http.MethodGet, "/api/exams", nil)
	exams, _ := body["exams"].([]any)
	if len(exams) != 0 {
		t.Errorf("expected empty exam list, got %v", body["exams"])
	}
}
