package utils

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ValidatePDF kiểm tra dữ liệu upload là PDF đọc được và trả về số trang.
// Dùng trước khi lưu e-book lên storage, tránh nhận file hỏng.
func ValidatePDF(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("file không phải PDF hợp lệ: %w", err)
	}

	pages := reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("PDF không có trang nào")
	}
	return pages, nil
}
