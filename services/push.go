package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"massage-service-server/config"
)

// ExpoPushClient delivers push notifications through the Expo Push API.
type ExpoPushClient struct {
	url    string
	client *http.Client
}

func NewExpoPushClient() *ExpoPushClient {
	cfg := config.AppConfig.Push
	return &ExpoPushClient{
		url: cfg.ExpoURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Send pushes one notification to a device token via the Expo Push API
func (c *ExpoPushClient) Send(token, title, body string, data map[string]interface{}, sound, priority string) error {
	payload := map[string]interface{}{
		"to":        token,
		"title":     title,
		"body":      body,
		"data":      data,
		"sound":     sound,
		"priority":  priority,
		"channelId": "orders",
	}

	bodyBytes, _ := json.Marshal(payload)
	log.Printf("📤 Sending Expo push notification to token: %s", token)

	req, err := http.NewRequest("POST", c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		log.Printf("❌ Failed to create Expo request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("❌ Expo request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("❌ Failed to read Expo response: %v", err)
	} else {
		log.Printf("📥 Expo response (%d): %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("expo push failed: %s", resp.Status)
	}

	log.Printf("✅ Expo push notification sent successfully")
	return nil
}
