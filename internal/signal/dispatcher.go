package signal

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/logger"
)

// Dispatcher formats alert events and hands them to the notifier.
// Transport failures are logged and swallowed; they never fail the
// scan or check that produced the alert.
type Dispatcher struct {
	notifier contracts.Notifier
	logger   *logger.Logger
}

// NewDispatcher creates an alert dispatcher
func NewDispatcher(notifier contracts.Notifier, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   log,
	}
}

// Dispatch sends the alert, best effort
func (d *Dispatcher) Dispatch(ctx context.Context, event *contracts.AlertEvent) {
	message := FormatAlert(event)

	if err := d.notifier.Send(ctx, message); err != nil {
		d.logger.WithError(err).WithField("symbol", event.Symbol).Error("Alert delivery failed")
		return
	}

	d.logger.WithFields(map[string]interface{}{
		"symbol": event.Symbol,
		"action": event.Action,
	}).Info("Alert sent")
}

// FormatAlert renders the Telegram Markdown alert message
func FormatAlert(e *contracts.AlertEvent) string {
	modeIcon := "🤖"
	if e.Mode == contracts.ModeManual {
		modeIcon = "🛠️"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 **SIGNAL ALERT: %s**\n\n", e.Symbol)
	fmt.Fprintf(&b, "📈 **Action:** %s\n", e.Action)
	fmt.Fprintf(&b, "💰 **Price:** $%.2f\n\n", e.Price)
	fmt.Fprintf(&b, "%s **Mode:** %s\n", modeIcon, e.Mode)
	fmt.Fprintf(&b, "⚙️ **Strategy:** %s\n", e.Strategy)
	fmt.Fprintf(&b, "⏳ **Timeframe:** %s (%s)\n", e.Timeframe, e.Period)
	fmt.Fprintf(&b, "📊 **Stats:** WR %.0f%% | %d Trades\n\n", e.WinRate, e.TotalTrades)
	fmt.Fprintf(&b, "🎯 **TP:** $%.2f\n", e.TakeProfit)
	fmt.Fprintf(&b, "🛑 **SL:** $%.2f\n", e.StopLoss)
	fmt.Fprintf(&b, "⚖️ **R:R:** %s\n\n", e.RiskReward)
	b.WriteString("_QuantBot System_")

	return b.String()
}
