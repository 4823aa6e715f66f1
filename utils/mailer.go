// utils/mailer.go
package utils

import (
	"log"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// SendNotificationEmail sends a plain-text notification. SMTP settings come
// from SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASSWORD; when unset, mail is
// skipped silently. Failures are logged and swallowed: mail is a courtesy,
// never part of an approval's atomic unit.
func SendNotificationEmail(to, subject, body string) {
	host := os.Getenv("SMTP_HOST")
	if host == "" || to == "" {
		return
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, user, password)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send notification email to %s: %v", to, err)
	}
}
