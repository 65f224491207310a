package helper

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

func NewMailer(host, port, username, password, from, appURL string) *Mailer {
	portNumber, err := strconv.Atoi(port)
	if err != nil {
		portNumber = 587
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, portNumber, username, password),
		from:   from,
		appURL: appURL,
	}
}

// NewVerificationToken returns an opaque single-use token.
func NewVerificationToken() string {
	return uuid.NewString()
}

func (m *Mailer) SendVerification(to, name, token string) error {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.appURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your StackIt email")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your email address by opening the link below within 24 hours.</p><p><a href=%q>%s</a></p>",
		name, link, link,
	))

	return m.dialer.DialAndSend(msg)
}
