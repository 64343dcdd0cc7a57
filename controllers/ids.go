package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// nextID sinh id kế tiếp dạng <prefix>NNN (STU001, COURSE002, EXAM003...).
// Lấy max số hiện có + 1 thay vì đếm phần tử, để id không trùng lại
// sau khi xóa giữa danh sách.
func nextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}

func nowDateTime() string {
	return time.Now().UTC().Format(time.RFC3339)
}
