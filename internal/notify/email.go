// Package notify escalates critical theft alerts over email.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"fleetwatch/internal/models"
)

// sesSender is the slice of the SES client the notifier needs.
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailNotifier sends a digest email whenever the alert poll surfaces
// critical alerts that have not been escalated before. Delivery is
// best-effort: a send failure is logged and the alerts are retried on the
// next poll cycle.
type EmailNotifier struct {
	sender sesSender
	from   string
	to     []string

	mu   sync.Mutex
	seen map[string]bool
}

// NewEmailNotifier builds a notifier over SES. Returns nil (disabled) when
// from or to is unset; callers treat a nil notifier as a no-op.
func NewEmailNotifier(ctx context.Context, from string, to []string) *EmailNotifier {
	if from == "" || len(to) == 0 {
		log.Info("alert email escalation disabled: no sender or recipients configured")
		return nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.WithError(err).Warn("alert email escalation disabled: AWS config unavailable")
		return nil
	}
	return &EmailNotifier{
		sender: sesv2.NewFromConfig(cfg),
		from:   from,
		to:     to,
		seen:   make(map[string]bool),
	}
}

// NotifyCritical sends one digest covering the critical alerts in the batch
// that have not been escalated yet. Nil receivers no-op so wiring stays
// unconditional.
func (n *EmailNotifier) NotifyCritical(ctx context.Context, alerts []models.Alert) {
	if n == nil {
		return
	}

	n.mu.Lock()
	var fresh []models.Alert
	for _, a := range alerts {
		if a.Level != models.RiskLevelCritical || n.seen[a.ID] {
			continue
		}
		fresh = append(fresh, a)
	}
	n.mu.Unlock()

	if len(fresh) == 0 {
		return
	}

	subject := fmt.Sprintf("[FleetWatch] %d critical theft alert(s)", len(fresh))
	body := digestBody(fresh)

	_, err := n.sender.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination:      &types.Destination{ToAddresses: n.to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		log.WithError(err).Warnf("failed to escalate %d critical alerts", len(fresh))
		return
	}

	n.mu.Lock()
	for _, a := range fresh {
		n.seen[a.ID] = true
	}
	n.mu.Unlock()
	log.Infof("escalated %d critical alerts to %d recipients", len(fresh), len(n.to))
}

func digestBody(alerts []models.Alert) string {
	var b strings.Builder
	b.WriteString("The following critical alerts need attention:\n\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "- [%s] %s: %s", a.Time, a.TruckID, a.Message)
		if a.RiskScore != nil {
			fmt.Fprintf(&b, " (risk %d)", *a.RiskScore)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
