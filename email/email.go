// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package email

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends election notification mail over SMTP. A Mailer built
// from an environment without SMTP settings is disabled: every Send
// method becomes a logged no-op, so handlers never need to branch on
// whether mail is configured.
type Mailer struct {
	host string
	port int
	user string
	pass string
}

// NewFromEnv builds a Mailer from SMTP_HOST, SMTP_PORT, SMTP_EMAIL,
// and SMTP_PASSWORD. Missing settings yield a disabled Mailer.
func NewFromEnv() *Mailer {
	m := &Mailer{
		host: os.Getenv("SMTP_HOST"),
		user: os.Getenv("SMTP_EMAIL"),
		pass: os.Getenv("SMTP_PASSWORD"),
	}
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			slog.Warn("invalid SMTP_PORT, mail disabled", "value", portStr)
			return &Mailer{}
		}
		m.port = port
	}
	return m
}

// Enabled reports whether the Mailer has a complete SMTP configuration.
// A nil Mailer is disabled.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != "" && m.port != 0 && m.user != "" && m.pass != ""
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		slog.Debug("mail disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// SendWelcome confirms a registration and explains the verification step.
func (m *Mailer) SendWelcome(to, name string) error {
	return m.send(to, "Registration received", fmt.Sprintf(`
        <h3>Welcome, %s!</h3>
        <p>Your registration for the upcoming election was received.</p>
        <p>Please wait while the committee verifies your KTM and profile photo.</p>
        <p>You will receive another email with your voting token once approved.</p>
    `, name))
}

// SendApproval delivers the voting token after admin approval.
func (m *Mailer) SendApproval(to, name, token string) error {
	return m.send(to, "Registration approved", fmt.Sprintf(`
        <h3>Hello, %s</h3>
        <p>Your registration has been approved.</p>
        <p><strong>Your voting token is: %s</strong></p>
        <p>Do not share this token with anyone.</p>
    `, name, token))
}

// SendReminder nudges an approved voter shortly before the election opens.
func (m *Mailer) SendReminder(to, name, token string) error {
	return m.send(to, "Election reminder: your token inside", fmt.Sprintf(`
        <h3>Hello, %s</h3>
        <p>The election is starting soon!</p>
        <p><strong>Your voting token is: %s</strong></p>
        <p>See you at the polls!</p>
    `, name, token))
}

// SendVoteConfirmation confirms a recorded ballot.
func (m *Mailer) SendVoteConfirmation(to, name, candidateName string) error {
	return m.send(to, "Your vote has been recorded", fmt.Sprintf(`
        <h3>Thank you, %s</h3>
        <p>Your vote for <strong>%s</strong> has been recorded and is
        awaiting committee verification.</p>
    `, name, candidateName))
}
