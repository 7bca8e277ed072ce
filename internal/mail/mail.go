// Package mail sends pallet notifications and report exports over SMTP.
package mail

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pryzera/palletline/pkg/types"
)

// SendFunc is the function used to hand messages to the SMTP server.
// Override in tests.
var SendFunc = smtp.SendMail

// Config is the SMTP endpoint and sender identity.
type Config struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// Attachment is one file to attach to a message.
type Attachment struct {
	Filename string
	MIME     string
	Content  []byte
}

// Send delivers a plain-text message, optionally with attachments, to a
// single recipient.
func Send(cfg Config, to, subject, body string, attachments ...Attachment) error {
	if cfg.Host == "" {
		return fmt.Errorf("%w: smtp host not set", types.ErrConfiguration)
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	msg := buildMessage(from, to, subject, body, attachments)
	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	if err := SendFunc(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

const boundary = "palletline-mixed-boundary"

// buildMessage renders RFC 5322 text. Messages without attachments are
// plain text/plain; with attachments they become multipart/mixed with
// base64 parts.
func buildMessage(from, to, subject, body string, attachments []Attachment) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", from, to, subject)

	if len(attachments) == 0 {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(body)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	for _, a := range attachments {
		mime := a.MIME
		if mime == "" {
			mime = "application/octet-stream"
		}
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", mime)
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", a.Filename)
		b.WriteString(wrap76(base64.StdEncoding.EncodeToString(a.Content)))
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// wrap76 folds base64 text at the 76-column limit mail transports expect.
func wrap76(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76])
		b.WriteString("\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}
