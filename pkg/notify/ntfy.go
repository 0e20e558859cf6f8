package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const ntfyTimeout = 10 * time.Second

// NtfyNotifier publishes notices to an ntfy topic. Each publish runs on its own
// goroutine so Notify never blocks.
type NtfyNotifier struct {
	log        *zap.Logger
	httpClient *http.Client
	baseURL    string
	topic      string
}

func NewNtfyNotifier(log *zap.Logger, httpClient *http.Client, baseURL, topic string) *NtfyNotifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NtfyNotifier{
		log:        log,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		topic:      topic,
	}
}

func (n *NtfyNotifier) Notify(notice Notice) {
	go func() {
		if err := n.publish(notice); err != nil {
			n.log.Warn("ntfy publish failed", zap.Error(err), zap.String("topic", n.topic))
		}
	}()
}

func formatNtfyMessage(notice Notice) string {
	var b strings.Builder
	b.WriteString(notice.Message)
	if notice.Detail != "" {
		b.WriteString(" | Detail: ")
		b.WriteString(notice.Detail)
	}
	b.WriteString("\nTime: ")
	b.WriteString(notice.Time.Format(time.RFC3339))
	return b.String()
}

func (n *NtfyNotifier) publish(notice Notice) error {
	ctx, cancel := context.WithTimeout(context.Background(), ntfyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/"+n.topic,
		strings.NewReader(formatNtfyMessage(notice)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", string(notice.Kind))
	if notice.Level == LevelError {
		req.Header.Set("Tags", "warning")
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("ntfy: unexpected status %d", resp.StatusCode)
	}
	return nil
}
