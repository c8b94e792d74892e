package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/secwatch/sectest-insights/pkg/models"
)

// TeamsNotifier posts alerts to a Microsoft Teams incoming webhook as a
// MessageCard.
type TeamsNotifier struct {
	webhookURL string
	httpClient *http.Client
}

type teamsCard struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor"`
	Summary    string         `json:"summary"`
	Title      string         `json:"title"`
	Sections   []teamsSection `json:"sections"`
	Actions    []teamsAction  `json:"potentialAction,omitempty"`
}

type teamsSection struct {
	Text string `json:"text"`
}

type teamsAction struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Targets []teamsTarget `json:"targets"`
}

type teamsTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

func NewTeamsNotifier(webhookURL string) *TeamsNotifier {
	return &TeamsNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (t *TeamsNotifier) Name() string {
	return "teams"
}

func (t *TeamsNotifier) Send(ctx context.Context, alert Alert) error {
	card := teamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: themeColor(alert.Severity),
		Summary:    alert.Title,
		Title:      fmt.Sprintf("%s [%s]", alert.Title, alert.Severity),
		Sections: []teamsSection{
			{Text: strings.Join(alert.Lines, "<br>")},
		},
	}
	if alert.Link != "" {
		card.Actions = []teamsAction{
			{
				Type:    "OpenUri",
				Name:    "Full report",
				Targets: []teamsTarget{{OS: "default", URI: alert.Link}},
			},
		}
	}

	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to encode teams payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create teams request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to teams: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("teams webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func themeColor(level models.RiskLevel) string {
	switch level {
	case models.RiskCritical:
		return "A50E0E"
	case models.RiskHigh:
		return "D93025"
	case models.RiskMedium:
		return "F9AB00"
	default:
		return "1E8E3E"
	}
}
