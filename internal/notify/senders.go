package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog"
)

// LogNotifier records messages in the log instead of delivering them.
type LogNotifier struct {
	logger zerolog.Logger
	now    func() time.Time
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger(), now: time.Now}
}

func (n *LogNotifier) Send(_ context.Context, msg Message) (Delivery, error) {
	if err := Validate(msg); err != nil {
		return Delivery{}, err
	}
	subject, body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return Delivery{}, err
	}
	delivery := Delivery{
		ID:        uuid.NewString(),
		Channel:   msg.Type,
		Recipient: msg.Recipient,
		Subject:   subject,
		Provider:  "log",
		SentAt:    n.now(),
	}
	n.logger.Info().
		Str("delivery_id", delivery.ID).
		Str("channel", string(msg.Type)).
		Str("recipient", msg.Recipient).
		Str("template", msg.Template).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("notification queued")
	return delivery, nil
}

// MailgunNotifier sends email through Mailgun. SMS goes to fallback.
type MailgunNotifier struct {
	mg       mailgun.Mailgun
	sender   string
	fallback Notifier
	logger   zerolog.Logger
	timeout  time.Duration
}

func NewMailgunNotifier(mg mailgun.Mailgun, sender string, fallback Notifier, logger zerolog.Logger) *MailgunNotifier {
	return &MailgunNotifier{
		mg:       mg,
		sender:   sender,
		fallback: fallback,
		logger:   logger.With().Str("component", "mailgun_notifier").Logger(),
		timeout:  20 * time.Second,
	}
}

func (n *MailgunNotifier) Send(ctx context.Context, msg Message) (Delivery, error) {
	if err := Validate(msg); err != nil {
		return Delivery{}, err
	}
	if msg.Type != ChannelEmail {
		return n.fallback.Send(ctx, msg)
	}
	subject, body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return Delivery{}, err
	}
	message := n.mg.NewMessage(n.sender, subject, body, msg.Recipient)
	message.AddTag(msg.Template)

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	resp, id, err := n.mg.Send(ctx, message)
	if err != nil {
		n.logger.Error().Err(err).Str("recipient", msg.Recipient).Str("mailgun_resp", resp).Msg("mailgun send failed")
		return Delivery{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	n.logger.Info().Str("recipient", msg.Recipient).Str("mailgun_id", id).Str("template", msg.Template).Msg("email sent")
	return Delivery{
		ID:        id,
		Channel:   ChannelEmail,
		Recipient: msg.Recipient,
		Subject:   subject,
		Provider:  "mailgun",
		SentAt:    time.Now(),
	}, nil
}

// New picks Mailgun when a domain and key are configured, otherwise logs.
func New(domain, apiKey, sender string, logger zerolog.Logger) Notifier {
	logNotifier := NewLogNotifier(logger)
	if domain == "" || apiKey == "" {
		logger.Info().Msg("mailgun not configured, notifications will be logged")
		return logNotifier
	}
	logger.Info().Str("domain", domain).Msg("mailgun client initialized")
	return NewMailgunNotifier(mailgun.NewMailgun(domain, apiKey), sender, logNotifier, logger)
}
