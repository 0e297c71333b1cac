package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Notifier is the outbound chat boundary (see notifications.Sender).
type Notifier interface {
	Send(msg string)
}

// WebhookReporter announces each run's outcome on a chat webhook.
type WebhookReporter struct {
	notifier Notifier
}

func NewWebhookReporter(n Notifier) *WebhookReporter {
	return &WebhookReporter{notifier: n}
}

func (w *WebhookReporter) Publish(ctx context.Context, o Outcome) error {
	if o.Estimate == nil {
		w.notifier.Send(fmt.Sprintf("NAV run FAILED (holdings source: %s): %v", o.HoldingsSource, o.Err))
		return nil
	}

	msg := fmt.Sprintf("NAV estimate: %s (holdings: %s, coverage: %s)",
		o.Estimate.DisplayValue(), o.Estimate.HoldingsSource,
		o.Estimate.CoveredWeight.Mul(hundred).StringFixed(1)+"%")
	if o.Estimate.Degraded {
		msg += " — DEGRADED, extrapolated from partial coverage"
	}
	w.notifier.Send(msg)
	return nil
}
