package notify

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers a single rendered email. Implementations are consumed by
// the notification worker, never by request handlers directly.
type Mailer interface {
	Send(to, subject, body string) error
}

type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q body=%q", to, subject, body)
	return nil
}

type SMTPMailer struct {
	Addr string
	From string
}

func NewSMTPMailer(host, port, from string) SMTPMailer {
	return SMTPMailer{Addr: fmt.Sprintf("%s:%s", host, port), From: from}
}

func (m SMTPMailer) Send(to, subject, body string) error {
	msg := "Subject: " + subject + "\r\n\r\n" + body + "\r\n"
	return smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg))
}
