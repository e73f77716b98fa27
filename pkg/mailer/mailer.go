package mailer

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional emails over SMTP.
type Mailer interface {
	SendOtp(to, code, purpose string) error
	SendWelcome(to, fullName string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer() Mailer {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	return &smtpMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

func (m *smtpMailer) SendOtp(to, code, purpose string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your verification code")

	body := fmt.Sprintf(`
		<h2>Verification code</h2>
		<p>Use the following code to complete %s:</p>
		<h1 style="font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code expires in 10 minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, purpose, code)
	msg.SetBody("text/html", body)

	return m.send(msg)
}

func (m *smtpMailer) SendWelcome(to, fullName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome aboard")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been created. Please verify your email address to start using the system.</p>
	`, fullName)
	msg.SetBody("text/html", body)

	return m.send(msg)
}

func (m *smtpMailer) send(msg *gomail.Message) error {
	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
