package models

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Sender identifies which side of the conversation authored a Message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single chat turn. Once appended to history it is immutable.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// NewMessage builds a Message with a time-derived ID and an ISO-8601
// timestamp. Content is stored trimmed.
func NewMessage(content string, sender Sender, now time.Time) Message {
	return Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Content:   strings.TrimSpace(content),
		Sender:    sender,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// ValidateMessage reports whether content is sendable: non-blank after
// trimming and at most maxLen characters.
func ValidateMessage(content string, maxLen int) bool {
	trimmed := strings.TrimSpace(content)
	n := utf8.RuneCountInString(trimmed)
	return n > 0 && n <= maxLen
}
