package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Slack posts reachability alerts to an incoming-webhook URL.
type Slack struct {
	Webhook string
	Client  *http.Client
}

func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

func (s *Slack) Send(ctx context.Context, a Alert) error {
	if s == nil || s.Webhook == "" {
		return errors.New("slack notifier disabled")
	}

	body, err := json.Marshal(slackMessage{Text: formatAlert(a)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("slack webhook returned %s", resp.Status)
	}
	return nil
}

// formatAlert renders one flip as a Slack mrkdwn message.
func formatAlert(a Alert) string {
	header := fmt.Sprintf(":red_circle: *%s is DOWN*", a.Target.Name)
	if a.Recovered {
		header = fmt.Sprintf(":large_green_circle: *%s recovered (%s)*", a.Target.Name, a.Result.Status)
	}

	latency := "n/a"
	if a.Result.LatencyMS != nil {
		latency = fmt.Sprintf("%.0f ms", *a.Result.LatencyMS)
	}

	lines := []string{header, "URL: " + a.Target.URL}
	if a.Target.Kind != "" {
		lines = append(lines, "Kind: "+a.Target.Kind)
	}
	lines = append(lines,
		"Latency: "+latency,
		"Note: "+a.Result.Note,
		"Checked: "+a.Result.CheckedAt.Format(time.RFC3339),
	)
	return strings.Join(lines, "\n")
}
