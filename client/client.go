// Package client là SDK cho dashboard FTA: gọi API backend, giữ session
// cache tại chỗ và chạy authorization gate cho từng trang.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/favytech/fta-backend/models"
)

const defaultTimeout = 10 * time.Second

// Client gọi HTTP API với anon key chung (không theo người dùng).
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client
}

func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// LoginResponse là body trả về của /auth/login.
type LoginResponse struct {
	Success               bool            `json:"success"`
	Message               string          `json:"message"`
	SessionID             string          `json:"sessionId"`
	ExpiresAt             time.Time       `json:"expiresAt"`
	RequirePasswordChange bool            `json:"requirePasswordChange"`
	Student               *models.Student `json:"student"`
}

// Login xác thực id + password với role do form đăng nhập gửi lên.
func (c *Client) Login(ctx context.Context, id, password string, role models.Role) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"id":       id,
		"password": password,
		"role":     role,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifySession(ctx context.Context, sessionID string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-session", map[string]any{
		"sessionId": sessionID,
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (c *Client) RefreshSession(ctx context.Context, sessionID string) (bool, time.Time, error) {
	var out struct {
		Success   bool      `json:"success"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh-session", map[string]any{
		"sessionId": sessionID,
	}, &out)
	if err != nil {
		return false, time.Time{}, err
	}
	return out.Success, out.ExpiresAt, nil
}

func (c *Client) Logout(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]any{
		"sessionId": sessionID,
	}, nil)
}

func (c *Client) ChangeAdminPassword(ctx context.Context, oldPassword, newPassword string) (bool, string, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/change-admin-password", map[string]any{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}, &out)
	if err != nil {
		return false, "", err
	}
	return out.Success, out.Message, nil
}

func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var out struct {
		Students []models.Student `json:"students"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/students", nil, &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

func (c *Client) AddStudent(ctx context.Context, name, email, password string) (*models.Student, error) {
	var out struct {
		Student *models.Student `json:"student"`
	}
	err := c.do(ctx, http.MethodPost, "/api/students", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Student, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id, name, email string) error {
	return c.do(ctx, http.MethodPut, "/api/students/"+id, map[string]any{
		"name":  name,
		"email": email,
	}, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/students/"+id, nil, nil)
}

func (c *Client) ResetStudentPassword(ctx context.Context, id, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/students/"+id+"/reset-password", map[string]any{
		"newPassword": newPassword,
	}, nil)
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out struct {
		Courses []models.Course `json:"courses"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

func (c *Client) AddCourse(ctx context.Context, title, description, coverImage string) (*models.Course, error) {
	var out struct {
		Course *models.Course `json:"course"`
	}
	err := c.do(ctx, http.MethodPost, "/api/courses", map[string]any{
		"title":       title,
		"description": description,
		"coverImage":  coverImage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/courses/"+id, nil, nil)
}

func (c *Client) UpdateCoursePDF(ctx context.Context, courseID, pdfLink string) error {
	return c.do(ctx, http.MethodPut, "/api/courses/"+courseID+"/pdf", map[string]any{
		"pdfLink": pdfLink,
	}, nil)
}

func (c *Client) AddChapter(ctx context.Context, courseID, number, title, content string) error {
	return c.do(ctx, http.MethodPost, "/api/courses/"+courseID+"/chapters", map[string]any{
		"number":  number,
		"title":   title,
		"content": content,
	}, nil)
}

func (c *Client) UpdateChapterVideo(ctx context.Context, courseID, chapterID, videoURL string) error {
	return c.do(ctx, http.MethodPut, "/api/courses/"+courseID+"/chapters/"+chapterID+"/video", map[string]any{
		"videoUrl": videoURL,
	}, nil)
}

func (c *Client) ListExams(ctx context.Context) ([]models.Exam, error) {
	var out struct {
		Exams []models.Exam `json:"exams"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/exams", nil, &out); err != nil {
		return nil, err
	}
	return out.Exams, nil
}

func (c *Client) AddExam(ctx context.Context, title, date, examTime, formLink string) (*models.Exam, error) {
	var out struct {
		Exam *models.Exam `json:"exam"`
	}
	err := c.do(ctx, http.MethodPost, "/api/exams", map[string]any{
		"title":    title,
		"date":     date,
		"time":     examTime,
		"formLink": formLink,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Exam, nil
}

func (c *Client) DeleteExam(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/exams/"+id, nil, nil)
}

// do gửi request JSON kèm anon key và decode body trả về vào out (nếu có).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
