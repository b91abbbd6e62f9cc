package domain

import "time"

// Entry is one news item observed in a feed. ID is the dedup key and never empty.
type Entry struct {
	ID        string
	Title     string
	Link      string
	Summary   string
	ImageURL  string
	FeedURL   string
	Published time.Time
}

// DeliveryStatus reports the outcome of one delivery attempt
type DeliveryStatus string

// delivery outcomes
const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery is a journal record of one attempt to post an entry to the channel
type Delivery struct {
	ID        int64          `json:"id"`
	EntryID   string         `json:"entry_id"`
	Title     string         `json:"title"`
	Link      string         `json:"link"`
	Status    DeliveryStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
