// Package notify renders templated customer messages and delivers them by
// email or SMS.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"sautipay/internal/validator"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidChannel  = errors.New("type must be email or sms")
	ErrDeliveryFailed  = errors.New("notification delivery failed")
)

type Message struct {
	Type      Channel           `json:"type"`
	Recipient string            `json:"recipient"`
	Template  string            `json:"template"`
	Data      map[string]string `json:"data"`
}

type Delivery struct {
	ID        string    `json:"id"`
	Channel   Channel   `json:"type"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Provider  string    `json:"provider"`
	SentAt    time.Time `json:"sentAt"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) (Delivery, error)
}

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New(name + "_subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Option("missingkey=zero").Parse(body)),
	}
}

var templates = map[string]messageTemplate{
	"payment_receipt": mustTemplate("payment_receipt",
		"Payment received: {{.reference}}",
		"Hi {{.name}},\n\nWe received your payment of {{.amount}} {{.currency}} for policy {{.policyNumber}}.\nReference: {{.reference}}\n\nThank you for travelling with Sauti.",
	),
	"claim_update": mustTemplate("claim_update",
		"Claim {{.reference}} is {{.status}}",
		"Hi {{.name}},\n\nYour claim {{.reference}} is now {{.status}}.{{if .notes}}\nNotes: {{.notes}}{{end}}\n\nTrack it any time with your reference number.",
	),
	"refund_update": mustTemplate("refund_update",
		"Refund update for {{.transactionId}}",
		"Hi {{.name}},\n\nYour refund of {{.amount}} {{.currency}} for transaction {{.transactionId}} has been {{.status}}.",
	),
	"generic": mustTemplate("generic",
		"{{if .subject}}{{.subject}}{{else}}Message from Sauti Pay{{end}}",
		"{{.message}}",
	),
}

func Templates() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks channel, recipient format and template name.
func Validate(msg Message) error {
	switch msg.Type {
	case ChannelEmail:
		if err := validator.ValidateEmail(msg.Recipient); err != nil {
			return err
		}
	case ChannelSMS:
		if err := validator.ValidatePhone(msg.Recipient); err != nil {
			return err
		}
	default:
		return ErrInvalidChannel
	}
	if _, ok := templates[msg.Template]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, msg.Template)
	}
	return nil
}

func Render(name string, data map[string]string) (string, string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	if data == nil {
		data = map[string]string{}
	}
	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}
