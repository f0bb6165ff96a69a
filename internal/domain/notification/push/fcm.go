package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultFCMURL = "https://fcm.googleapis.com/fcm/send"

// sendTimeout bounds every provider call; a timeout counts as a failed send.
const sendTimeout = 10 * time.Second

// FCM sends through the Firebase Cloud Messaging legacy HTTP API.
type FCM struct {
	serverKey string
	apiURL    string
	client    *http.Client
}

func NewFCM(serverKey, apiURL string) *FCM {
	if apiURL == "" {
		apiURL = DefaultFCMURL
	}
	return &FCM{
		serverKey: serverKey,
		apiURL:    apiURL,
		client:    &http.Client{Timeout: sendTimeout},
	}
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound,omitempty"`
	Badge int    `json:"badge,omitempty"`
}

type fcmRequest struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority"`
}

func (f *FCM) Send(ctx context.Context, deviceToken string, p *Payload) (*Result, error) {
	body, err := json.Marshal(fcmRequest{
		To: deviceToken,
		Notification: fcmNotification{
			Title: p.Title,
			Body:  p.Body,
			Sound: p.Sound,
			Badge: p.Badge,
		},
		Data:     p.Data,
		Priority: "high",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal fcm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Authorization", "key="+f.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fcm request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &Result{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
