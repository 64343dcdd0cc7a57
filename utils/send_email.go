package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail gửi mail HTML qua SMTP. Dùng để báo tài khoản mới cho học viên.
// SMTP_HOST/SMTP_PORT không set thì mặc định Gmail.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	// Headers: hỗ trợ UTF-8 & HTML
	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	err := smtp.SendMail(
		host+":"+port,
		smtp.PlainAuth("", from, pass, host),
		from,
		[]string{to},
		[]byte(msg),
	)
	if err != nil {
		return fmt.Errorf("gửi email thất bại: %v", err)
	}
	return nil
}
