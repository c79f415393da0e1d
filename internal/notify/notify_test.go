package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sautipay/internal/validator"

	"github.com/rs/zerolog"
)

func TestRenderClaimUpdate(t *testing.T) {
	subject, body, err := Render("claim_update", map[string]string{
		"name":      "Amina",
		"reference": "CLM-4F7A2C91",
		"status":    "Approved",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Claim CLM-4F7A2C91 is Approved" {
		t.Fatalf("unexpected subject: %q", subject)
	}
	if strings.Contains(body, "Notes:") || strings.Contains(body, "<no value>") {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestRenderGenericDefaultSubject(t *testing.T) {
	subject, body, err := Render("generic", map[string]string{"message": "Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Message from Sauti Pay" || body != "Hello" {
		t.Fatalf("unexpected render: %q %q", subject, body)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		msg  Message
		want error
	}{
		{Message{Type: ChannelEmail, Recipient: "a@b.test", Template: "generic"}, nil},
		{Message{Type: ChannelSMS, Recipient: "+254700000001", Template: "payment_receipt"}, nil},
		{Message{Type: "fax", Recipient: "a@b.test", Template: "generic"}, ErrInvalidChannel},
		{Message{Type: ChannelEmail, Recipient: "nope", Template: "generic"}, validator.ErrInvalidEmail},
		{Message{Type: ChannelSMS, Recipient: "abc", Template: "generic"}, validator.ErrInvalidPhone},
		{Message{Type: ChannelEmail, Recipient: "a@b.test", Template: "welcome"}, ErrUnknownTemplate},
	}
	for _, tc := range cases {
		err := Validate(tc.msg)
		if tc.want == nil && err != nil {
			t.Fatalf("unexpected error for %#v: %v", tc.msg, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("expected %v for %#v, got %v", tc.want, tc.msg, err)
		}
	}
}

func TestLogNotifierSend(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))
	delivery, err := n.Send(context.Background(), Message{
		Type:      ChannelEmail,
		Recipient: "amina@example.test",
		Template:  "payment_receipt",
		Data:      map[string]string{"reference": "PAY-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivery.ID == "" || delivery.Provider != "log" || delivery.Subject != "Payment received: PAY-1" {
		t.Fatalf("unexpected delivery: %#v", delivery)
	}
	if !strings.Contains(buf.String(), "notification queued") {
		t.Fatalf("expected log entry, got %s", buf.String())
	}
}

func TestNewFallsBackToLog(t *testing.T) {
	if _, ok := New("", "", "", zerolog.Nop()).(*LogNotifier); !ok {
		t.Fatalf("expected log notifier without mailgun config")
	}
	if _, ok := New("mg.sautipay.test", "key", "Sauti <no-reply@sautipay.test>", zerolog.Nop()).(*MailgunNotifier); !ok {
		t.Fatalf("expected mailgun notifier when configured")
	}
}

func TestTemplatesSorted(t *testing.T) {
	names := Templates()
	if len(names) != 4 || names[0] != "claim_update" || names[3] != "refund_update" {
		t.Fatalf("unexpected templates: %v", names)
	}
}
