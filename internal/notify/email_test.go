package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"fleetwatch/internal/models"
)

type fakeSender struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSender) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func newTestNotifier(sender sesSender) *EmailNotifier {
	return &EmailNotifier{
		sender: sender,
		from:   "alerts@fleetwatch.in",
		to:     []string{"ops@fleetwatch.in"},
		seen:   make(map[string]bool),
	}
}

func critical(id, truck string) models.Alert {
	return models.Alert{ID: id, TruckID: truck, Level: models.RiskLevelCritical, Message: "Route deviation", Time: "11:42 PM"}
}

func TestOnlyCriticalAlertsEscalate(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	n.NotifyCritical(context.Background(), []models.Alert{
		{ID: "A-1", Level: models.RiskLevelHigh},
		{ID: "A-2", Level: models.RiskLevelMedium},
	})
	if len(sender.inputs) != 0 {
		t.Errorf("sent %d emails for non-critical alerts; want 0", len(sender.inputs))
	}

	n.NotifyCritical(context.Background(), []models.Alert{critical("A-3", "TRK-204")})
	if len(sender.inputs) != 1 {
		t.Fatalf("sent %d emails; want 1", len(sender.inputs))
	}
	body := *sender.inputs[0].Content.Simple.Body.Text.Data
	if !strings.Contains(body, "TRK-204") {
		t.Errorf("digest body %q does not mention the truck", body)
	}
}

func TestAlertEscalatedOnlyOnce(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	batch := []models.Alert{critical("A-1", "TRK-101")}
	n.NotifyCritical(context.Background(), batch)
	n.NotifyCritical(context.Background(), batch)
	if len(sender.inputs) != 1 {
		t.Errorf("sent %d emails for the same alert; want 1", len(sender.inputs))
	}
}

func TestFailedSendRetriesNextCycle(t *testing.T) {
	sender := &fakeSender{err: errors.New("ses throttled")}
	n := newTestNotifier(sender)

	batch := []models.Alert{critical("A-1", "TRK-101")}
	n.NotifyCritical(context.Background(), batch)

	// The first send failed, so the alert must not be marked as seen.
	sender.err = nil
	n.NotifyCritical(context.Background(), batch)
	if len(sender.inputs) != 2 {
		t.Fatalf("sender called %d times; want 2 (retry after failure)", len(sender.inputs))
	}
}

func TestDigestBatchesMultipleAlerts(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	n.NotifyCritical(context.Background(), []models.Alert{
		critical("A-1", "TRK-101"),
		critical("A-2", "TRK-102"),
	})
	if len(sender.inputs) != 1 {
		t.Fatalf("sent %d emails; want a single digest", len(sender.inputs))
	}
	subject := *sender.inputs[0].Content.Simple.Subject.Data
	if !strings.Contains(subject, "2 critical") {
		t.Errorf("subject = %q; want the alert count", subject)
	}
}

func TestNilNotifierIsNoOp(t *testing.T) {
	var n *EmailNotifier
	n.NotifyCritical(context.Background(), []models.Alert{critical("A-1", "TRK-101")})
}
