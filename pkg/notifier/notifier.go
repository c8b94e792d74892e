package notifier

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/config"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/reporter"
)

// Notifier delivers an alert to one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, alert Alert) error
}

// Alert is the channel-independent payload. Renderers format it per
// channel.
type Alert struct {
	Title    string
	Severity models.RiskLevel
	Lines    []string
	Link     string
}

// ShouldAlert decides whether a report warrants a notification: the risk
// level reached the configured minimum, the security trend is INCREASING,
// or the trend analysis produced a WARNING insight.
func ShouldAlert(r *reporter.Report, minLevel models.RiskLevel) bool {
	if r.Risk.Level.AtLeast(minLevel) {
		return true
	}
	if r.Security != nil && r.Security.OverallTrend == analyzer.RiskIncreasing {
		return true
	}
	if r.Trend != nil {
		for _, insight := range r.Trend.Insights {
			if insight.Severity == analyzer.InsightWarning {
				return true
			}
		}
	}
	return false
}

// BuildAlert condenses a report into an alert payload.
func BuildAlert(r *reporter.Report) Alert {
	suite := r.Suite
	if suite == "" {
		suite = "all suites"
	}

	alert := Alert{
		Title:    fmt.Sprintf("Test trend alert: %s", suite),
		Severity: r.Risk.Level,
	}

	alert.Lines = append(alert.Lines,
		fmt.Sprintf("Security risk %s (score %.0f)", r.Risk.Level, r.Risk.Score))
	alert.Lines = append(alert.Lines, r.Risk.Drivers...)
	if r.Trend != nil {
		alert.Lines = append(alert.Lines,
			fmt.Sprintf("Success rate trend %s over %d data points", r.Trend.Direction, r.Trend.DataPoints))
		for _, insight := range r.Trend.Insights {
			if insight.Severity == analyzer.InsightWarning {
				alert.Lines = append(alert.Lines, insight.Message)
			}
		}
	}
	if r.Security != nil && r.Security.OverallTrend == analyzer.RiskIncreasing {
		alert.Lines = append(alert.Lines,
			fmt.Sprintf("Security findings are increasing at %.1f points/day", r.Security.RiskVelocity))
	}
	if len(r.Recommendations) > 0 {
		alert.Lines = append(alert.Lines, "Next action: "+r.Recommendations[0].Action)
	}

	return alert
}

// Dispatcher fans an alert out to all configured channels. Send failures
// are collected rather than aborting the remaining channels.
type Dispatcher struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(notifiers []Notifier, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// Channels returns the names of the configured notifiers.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Dispatch sends the alert to every channel and returns the joined
// failures, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range d.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			d.logger.Warn("notification failed",
				zap.String("channel", n.Name()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		d.logger.Debug("notification sent", zap.String("channel", n.Name()))
	}
	return errors.Join(errs...)
}

// FromConfig builds a dispatcher from the notification settings.
func FromConfig(cfg config.NotifyConfig, logger *zap.Logger) (*Dispatcher, error) {
	notifiers := make([]Notifier, 0, len(cfg.Channels))
	for _, channel := range cfg.Channels {
		switch channel {
		case "slack":
			if cfg.SlackWebhook == "" {
				return nil, fmt.Errorf("slack channel requires a webhook URL")
			}
			notifiers = append(notifiers, NewSlackNotifier(cfg.SlackWebhook))
		case "teams":
			if cfg.TeamsWebhook == "" {
				return nil, fmt.Errorf("teams channel requires a webhook URL")
			}
			notifiers = append(notifiers, NewTeamsNotifier(cfg.TeamsWebhook))
		case "console":
			notifiers = append(notifiers, NewConsoleNotifier(os.Stdout))
		default:
			return nil, fmt.Errorf("unknown notification channel: %s", channel)
		}
	}
	return NewDispatcher(notifiers, logger), nil
}
