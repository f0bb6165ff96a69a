package notification

import (
	"fmt"
	"strings"

	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/notification/push"
)

// Deep-link formats the mobile router parses. Keep in sync with the client.
const (
	jobDeepLinkFormat  = "app://job/%s"
	chatDeepLinkFormat = "app://chat/%s"
)

func JobDeepLink(jobID string) string {
	return fmt.Sprintf(jobDeepLinkFormat, jobID)
}

func ChatDeepLink(roomID string) string {
	return fmt.Sprintf(chatDeepLinkFormat, roomID)
}

func buildJobPayload(j *job.Posting) *push.Payload {
	body := fmt.Sprintf("Location: %s\nCompensation: %s", j.LocationText, j.CompensationRange)
	if len(j.RequiredSkills) > 0 {
		body += "\nSkills: " + strings.Join(j.RequiredSkills, ", ")
	}

	return &push.Payload{
		Title: fmt.Sprintf("New %s Job: %s", j.CategoryName, j.Title),
		Body:  body,
		Sound: "default",
		Badge: 1,
		Data: map[string]string{
			"jobId":          j.ID,
			"deepLink":       JobDeepLink(j.ID),
			"title":          j.Title,
			"location":       j.LocationText,
			"compensation":   j.CompensationRange,
			"category":       j.CategoryName,
			"requiredSkills": strings.Join(j.RequiredSkills, ","),
		},
	}
}

const previewLimit = 100

func buildChatPayload(ev *ChatMessageEvent) *push.Payload {
	sender := ev.SenderName
	if sender == "" {
		sender = "Someone"
	}

	preview := ev.Content
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit]) + "…"
	}

	return &push.Payload{
		Title: fmt.Sprintf("New message from %s", sender),
		Body:  preview,
		Sound: "default",
		Badge: 1,
		Data: map[string]string{
			"messageId":  ev.MessageID,
			"chatRoomId": ev.RoomID,
			"deepLink":   ChatDeepLink(ev.RoomID),
			"senderName": sender,
		},
	}
}
