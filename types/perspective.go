package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Perspective is one outlet's framing of a topic, as served by the perspectives API
type Perspective struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Source       string  `json:"source"`
	Community    string  `json:"community"`
	Quote        string  `json:"quote"`
	Sentiment    float64 `json:"sentiment"`
	Date         string  `json:"date"`
	URL          string  `json:"url"`
	CommentCount int     `json:"comment_count"`
}

// Leaning classifies the perspective's community label. See ClassifyLeaning.
func (p Perspective) Leaning() (Leaning, bool) {
	return ClassifyLeaning(p.Community)
}

// PublishedAt parses Date, accepting both full timestamps and plain days.
func (p Perspective) PublishedAt() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, p.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Comment is a reader comment attached to a perspective
type Comment struct {
	ID            string     `json:"id"`
	PerspectiveID string     `json:"perspective_id"`
	Content       string     `json:"content"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// NewCommentRequest is the body of POST /api/perspectives/{id}/comments
type NewCommentRequest struct {
	Content string `json:"content"`
}

// CommentCount is the body of GET /api/perspectives/{id}/comments/count
type CommentCount struct {
	Count int `json:"count"`
}

// TimelineEntry groups the perspectives published on one day
type TimelineEntry struct {
	Date         string        `json:"date"`
	Perspectives []Perspective `json:"perspectives"`
}

// GenerateID creates a unique ID from URL
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
