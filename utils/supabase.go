package utils

import (
	"bytes"
	"fmt"
	"os"

	storage "github.com/supabase-community/storage-go"
)

// UploadEbookPDF đẩy file e-book lên Supabase Storage,
// path: ebooks/<courseID>.pdf, trả về public URL để gắn vào pdfDownloadLink.
func UploadEbookPDF(data []byte, courseID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return "", fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	objectPath := fmt.Sprintf("ebooks/%s.pdf", courseID)
	contentType := "application/pdf"
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient.UploadFile("uploads", objectPath, bytes.NewReader(data), options); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", supabaseURL, objectPath)
	return publicURL, nil
}
