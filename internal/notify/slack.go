package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

// Slack posts the briefing to one channel through a bot token. With no
// token or channel configured the sender is disabled, which is not an
// error: chat delivery is optional.
type Slack struct {
	botToken   string
	channel    string
	apiURL     string
	httpClient *http.Client
	log        zerolog.Logger

	now func() time.Time
}

func NewSlack(botToken, channel string, log zerolog.Logger) *Slack {
	return &Slack{
		botToken:   botToken,
		channel:    channel,
		apiURL:     slackPostMessageURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
		now:        time.Now,
	}
}

func (s *Slack) Enabled() bool {
	return s.botToken != "" && s.channel != ""
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Send posts the analysis as a dated, code-fenced message and reports
// success. Unconfigured or failed sends return false.
func (s *Slack) Send(ctx context.Context, analysis string) bool {
	if !s.Enabled() {
		s.log.Debug().Msg("slack not configured, skipping")
		return false
	}

	text := fmt.Sprintf("*Market Research Report - %s*\n\n```%s```", s.now().Format("January 2, 2006"), analysis)
	payload := map[string]any{
		"channel": s.channel,
		"text":    text,
		"mrkdwn":  true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal slack message")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		s.log.Error().Err(err).Msg("build slack request")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+s.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Error().Err(err).Msg("slack request failed")
		return false
	}
	defer resp.Body.Close()

	var out slackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.log.Error().Err(err).Msg("decode slack response")
		return false
	}
	if !out.OK {
		s.log.Error().Str("error", out.Error).Msg("slack api returned error")
		return false
	}

	s.log.Info().Str("channel", s.channel).Msg("slack message sent")
	return true
}
