package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/config"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/recommender"
	"github.com/secwatch/sectest-insights/pkg/reporter"
)

type fakeNotifier struct {
	name  string
	err   error
	calls int
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(ctx context.Context, alert Alert) error {
	f.calls++
	return f.err
}

func quietReport() *reporter.Report {
	return &reporter.Report{
		Suite:      "auth",
		WindowDays: 30,
		Trend:      &analyzer.TrendAnalysisResult{Direction: analyzer.TrendStable, DataPoints: 5},
		Security:   &analyzer.SecurityTrendAnalysis{OverallTrend: analyzer.RiskDecreasing},
		Risk:       models.RiskAssessment{Level: models.RiskLow},
	}
}

func TestShouldAlert(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *reporter.Report)
		want   bool
	}{
		{
			name:   "quiet report stays silent",
			modify: func(r *reporter.Report) {},
			want:   false,
		},
		{
			name:   "risk at minimum",
			modify: func(r *reporter.Report) { r.Risk.Level = models.RiskHigh },
			want:   true,
		},
		{
			name:   "risk above minimum",
			modify: func(r *reporter.Report) { r.Risk.Level = models.RiskCritical },
			want:   true,
		},
		{
			name:   "security trend increasing",
			modify: func(r *reporter.Report) { r.Security.OverallTrend = analyzer.RiskIncreasing },
			want:   true,
		},
		{
			name: "warning insight",
			modify: func(r *reporter.Report) {
				r.Trend.Insights = []analyzer.TrendInsight{
					{Code: analyzer.InsightHighVolatility, Message: "High volatility detected - results are inconsistent", Severity: analyzer.InsightWarning},
				}
			},
			want: true,
		},
		{
			name: "info insight stays silent",
			modify: func(r *reporter.Report) {
				r.Trend.Insights = []analyzer.TrendInsight{
					{Code: analyzer.InsightStableTrend, Message: "success_rate is stable", Severity: analyzer.InsightInfo},
				}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := quietReport()
			tt.modify(r)
			if got := ShouldAlert(r, models.RiskHigh); got != tt.want {
				t.Errorf("Expected ShouldAlert %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildAlert(t *testing.T) {
	r := quietReport()
	r.Risk = models.RiskAssessment{Level: models.RiskHigh, Score: 18, Drivers: []string{"3 HIGH findings"}}
	r.Security.OverallTrend = analyzer.RiskIncreasing
	r.Security.RiskVelocity = 2.5
	r.Recommendations = []recommender.Recommendation{
		{Action: "Prioritize remediation of trending vulnerability classes"},
	}

	alert := BuildAlert(r)

	if alert.Title != "Test trend alert: auth" {
		t.Errorf("Expected suite in title, got %q", alert.Title)
	}
	if alert.Severity != models.RiskHigh {
		t.Errorf("Expected HIGH severity, got %s", alert.Severity)
	}

	body := strings.Join(alert.Lines, "\n")
	for _, want := range []string{
		"Security risk HIGH (score 18)",
		"3 HIGH findings",
		"increasing at 2.5 points/day",
		"Next action: Prioritize remediation of trending vulnerability classes",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected alert lines to contain %q, got %q", want, body)
		}
	}
}

func TestBuildAlertWithoutSuite(t *testing.T) {
	r := quietReport()
	r.Suite = ""

	alert := BuildAlert(r)
	if alert.Title != "Test trend alert: all suites" {
		t.Errorf("Expected all-suites title, got %q", alert.Title)
	}
}

func TestSlackNotifier(t *testing.T) {
	var payload slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Failed to decode slack payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	alert := Alert{
		Title:    "Test trend alert: auth",
		Severity: models.RiskHigh,
		Lines:    []string{"3 HIGH findings"},
		Link:     "https://ci.example.com/report",
	}
	if err := NewSlackNotifier(server.URL).Send(context.Background(), alert); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(payload.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" || payload.Blocks[0].Text.Text != alert.Title {
		t.Errorf("Expected header block with title, got %+v", payload.Blocks[0])
	}
	section := payload.Blocks[1].Text.Text
	if !strings.Contains(section, "3 HIGH findings") || !strings.Contains(section, alert.Link) {
		t.Errorf("Expected section with lines and link, got %q", section)
	}
}

func TestSlackNotifierServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewSlackNotifier(server.URL).Send(context.Background(), Alert{Title: "t"})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestTeamsNotifier(t *testing.T) {
	var card teamsCard
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
			t.Errorf("Failed to decode teams payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	alert := Alert{
		Title:    "Test trend alert: auth",
		Severity: models.RiskCritical,
		Lines:    []string{"2 CRITICAL findings"},
		Link:     "https://ci.example.com/report",
	}
	if err := NewTeamsNotifier(server.URL).Send(context.Background(), alert); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if card.Type != "MessageCard" {
		t.Errorf("Expected MessageCard, got %s", card.Type)
	}
	if card.ThemeColor != "A50E0E" {
		t.Errorf("Expected critical theme color, got %s", card.ThemeColor)
	}
	if len(card.Sections) != 1 || !strings.Contains(card.Sections[0].Text, "2 CRITICAL findings") {
		t.Errorf("Expected findings in section, got %+v", card.Sections)
	}
	if len(card.Actions) != 1 || card.Actions[0].Targets[0].URI != alert.Link {
		t.Errorf("Expected link action, got %+v", card.Actions)
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	alert := Alert{
		Title:    "Test trend alert: auth",
		Severity: models.RiskMedium,
		Lines:    []string{"Success rate trend DECLINING over 10 data points"},
	}

	if err := NewConsoleNotifier(&buf).Send(context.Background(), alert); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "[ALERT] Test trend alert: auth [MEDIUM]") {
		t.Errorf("Expected alert header, got %q", out)
	}
	if !strings.Contains(out, "  - Success rate trend DECLINING") {
		t.Errorf("Expected alert line, got %q", out)
	}
}

func TestDispatcherCollectsFailures(t *testing.T) {
	ok := &fakeNotifier{name: "console"}
	bad := &fakeNotifier{name: "slack", err: errors.New("connection refused")}

	d := NewDispatcher([]Notifier{bad, ok}, zap.NewNop())
	err := d.Dispatch(context.Background(), Alert{Title: "t"})

	if err == nil {
		t.Fatal("Expected joined error")
	}
	if !strings.Contains(err.Error(), "slack: connection refused") {
		t.Errorf("Expected named failure, got %v", err)
	}
	if ok.calls != 1 {
		t.Errorf("Expected healthy channel to still receive the alert, got %d calls", ok.calls)
	}
}

func TestDispatcherAllHealthy(t *testing.T) {
	a := &fakeNotifier{name: "a"}
	b := &fakeNotifier{name: "b"}

	d := NewDispatcher([]Notifier{a, b}, nil)
	if err := d.Dispatch(context.Background(), Alert{Title: "t"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("Expected both channels called once, got %d and %d", a.calls, b.calls)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.NotifyConfig{
		Channels:     []string{"slack", "console"},
		SlackWebhook: "https://hooks.slack.com/services/T000/B000/XXX",
	}

	d, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	channels := d.Channels()
	if len(channels) != 2 || channels[0] != "slack" || channels[1] != "console" {
		t.Errorf("Expected slack and console channels, got %v", channels)
	}
}

func TestFromConfigMissingWebhook(t *testing.T) {
	_, err := FromConfig(config.NotifyConfig{Channels: []string{"teams"}}, nil)
	if err == nil {
		t.Fatal("Expected error for teams channel without webhook")
	}
	if !strings.Contains(err.Error(), "webhook") {
		t.Errorf("Expected webhook error, got %v", err)
	}
}

func TestFromConfigUnknownChannel(t *testing.T) {
	_, err := FromConfig(config.NotifyConfig{Channels: []string{"pager"}}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown channel")
	}
	if !strings.Contains(err.Error(), "unknown notification channel") {
		t.Errorf("Expected unknown channel error, got %v", err)
	}
}
