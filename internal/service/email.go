package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendContractApprovedNotification(ctx context.Context, email, personName, contractNumber string, totalCents int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Rental contract %s approved", contractNumber))

	body := fmt.Sprintf("Hello %s,\n\nYour rental contract %s has been approved.\n\nTotal amount: %s\n\nThank you for renting with us.", personName, contractNumber, formatCents(totalCents))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send approval email: %w", err)
	}

	return nil
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, personName, contractNumber string, endDate time.Time, lateFeeCents int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Rental contract %s is overdue", contractNumber))

	body := fmt.Sprintf("Hello %s,\n\nYour rental contract %s was due back on %s and has not been returned.", personName, contractNumber, endDate.Format("2006-01-02"))
	if lateFeeCents > 0 {
		body += fmt.Sprintf("\n\nLate fees accrued so far: %s.", formatCents(lateFeeCents))
	}
	body += "\n\nPlease return the equipment or contact us as soon as possible."

	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue reminder: %w", err)
	}

	return nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
