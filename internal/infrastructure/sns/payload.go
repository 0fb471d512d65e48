package sns

import (
	"encoding/json"

	"github.com/go-push-reactor/internal/domain"
)

type gcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type gcmMessage struct {
	Notification gcmNotification `json:"notification"`
	Priority     string          `json:"priority,omitempty"`
}

// buildPayload renders the SNS multi-platform message structure: a default
// text body plus a GCM block carrying the notification and priority hint.
func buildPayload(msg domain.PushMessage) (string, error) {
	gcm := gcmMessage{
		Notification: gcmNotification{Title: msg.Title, Body: msg.Body},
	}
	if msg.Priority == domain.PriorityHigh {
		gcm.Priority = "high"
	}
	gcmJSON, err := json.Marshal(gcm)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(map[string]string{
		"default": msg.Body,
		"GCM":     string(gcmJSON),
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
