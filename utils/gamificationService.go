package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/services/progress"

	"github.com/go-resty/resty/v2"
)

// SendCompletionEvents posts completion transitions to the gamification
// service. The progress transaction has already committed, so delivery
// failures are logged and retried, never rolled back.
func SendCompletionEvents(events []progress.CompletionEvent) {
	webhookURL := config.AppConfig.GamificationWebhookURL
	if webhookURL == "" {
		for _, event := range events {
			log.Printf("[GAMIFICATION] webhook not configured, dropping event %s (%s %d user %d)",
				event.EventID, event.EntityType, event.EntityID, event.UserID)
		}
		return
	}

	go func() {
		client := resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second)

		for _, event := range events {
			resp, err := client.R().
				SetHeader("Content-Type", "application/json").
				SetHeader("X-Api-Key", config.AppConfig.GamificationApiKey).
				SetBody(event).
				Post(webhookURL)
			if err != nil {
				log.Printf("[GAMIFICATION] failed to deliver event %s: %v", event.EventID, err)
				continue
			}
			if resp.IsError() {
				log.Printf("[GAMIFICATION] event %s rejected with status %d: %s",
					event.EventID, resp.StatusCode(), resp.String())
				continue
			}
			log.Printf("[GAMIFICATION] delivered event %s for %s %d (user %d)",
				event.EventID, event.EntityType, event.EntityID, event.UserID)
		}
	}()
}
