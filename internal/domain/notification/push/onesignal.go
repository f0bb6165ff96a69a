package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const DefaultOneSignalURL = "https://onesignal.com/api/v1/notifications"

// OneSignal sends through the OneSignal REST API, addressing devices by
// player ID (stored in the same device-token column).
type OneSignal struct {
	appID  string
	apiKey string
	apiURL string
	client *http.Client
}

func NewOneSignal(appID, apiKey, apiURL string) *OneSignal {
	if apiURL == "" {
		apiURL = DefaultOneSignalURL
	}
	return &OneSignal{
		appID:  appID,
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: sendTimeout},
	}
}

type oneSignalRequest struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]string `json:"data,omitempty"`
}

func (o *OneSignal) Send(ctx context.Context, deviceToken string, p *Payload) (*Result, error) {
	body, err := json.Marshal(oneSignalRequest{
		AppID:            o.appID,
		IncludePlayerIDs: []string{deviceToken},
		Headings:         map[string]string{"en": p.Title},
		Contents:         map[string]string{"en": p.Body},
		Data:             p.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal onesignal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build onesignal request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("onesignal request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &Result{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
