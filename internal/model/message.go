// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Message is a single notification text to classify.
type Message struct {
	Text   string `json:"text"`
	Sender string `json:"sender,omitempty"`
}

// Hash returns a stable digest of the message used for duplicate detection.
// Sender participates so the same text from two senders is kept twice.
func (m Message) Hash() string {
	data := fmt.Sprintf("%s:%s", strings.TrimSpace(m.Text), strings.TrimSpace(m.Sender))
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
