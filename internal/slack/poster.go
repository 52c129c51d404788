package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/report"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostSummary posts the headline of a generated report and returns the message ts.
// The flair lines follow as a threaded reply.
func (p *Poster) PostSummary(ctx context.Context, sum report.Summary, exportID string) (string, error) {
	text := formatSummaryMessage(sum, exportID)

	ts, err := p.post(ctx, map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": fmt.Sprintf("%s · timezone %s", sum.Tokenizer, sum.Timezone),
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	p.logger.Info("posted summary to slack", "ts", ts, "export_id", exportID)

	if err := p.PostThread(ctx, ts, strings.Join(sum.Flair.Lines(), "\n")); err != nil {
		p.logger.Warn("slack flair thread failed", "ts", ts, "error", err)
	}
	return ts, nil
}

// PostThread posts a threaded reply to a message.
func (p *Poster) PostThread(ctx context.Context, threadTS, text string) error {
	_, err := p.post(ctx, map[string]any{
		"channel":   p.channel,
		"thread_ts": threadTS,
		"text":      text,
	})
	return err
}

func (p *Poster) post(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}
	return slackResp.TS, nil
}

func formatSummaryMessage(sum report.Summary, exportID string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s *%s* · ChatGPT Wrapped %s\n", sum.Archetype.Emoji, sum.Archetype.Title, sum.Year)
	fmt.Fprintf(&sb, "_%s_\n", sum.Archetype.Tagline)
	fmt.Fprintf(&sb, "*Export:* %s\n\n", exportID)

	m := sum.Metrics
	if m.Messages == 0 {
		sb.WriteString("_No messages in this period._")
		return sb.String()
	}

	fmt.Fprintf(&sb, "*Tokens:* %s | *Messages:* %s | *Conversations:* %s\n",
		report.Int(m.Tokens), report.Int(m.Messages), report.Int(m.Conversations))
	fmt.Fprintf(&sb, "*Assistant share:* %s | *Active time:* %s\n",
		report.Percent(m.AssistantTokenShare), report.Minutes(m.ActiveMinutes))

	h := sum.Highlights
	if h.PeakDay != nil {
		fmt.Fprintf(&sb, "*Peak day:* %s (%s tokens) | *Busiest hour:* %s\n",
			*h.PeakDay, report.Int(h.PeakDayTokens), report.Hour(h.BusiestHour))
	}

	if len(sum.TopCategories) > 0 {
		sb.WriteString("\n*Top categories*\n")
		for i, c := range sum.TopCategories {
			if i == 3 {
				break
			}
			fmt.Fprintf(&sb, "%d. %s (%s tokens)\n", i+1, c.Category, report.Int(c.Tokens))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
