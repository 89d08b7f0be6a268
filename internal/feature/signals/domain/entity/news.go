package entity

import "time"

// NewsItem is one news or announcement entry attached to one or more
// watched symbols. Importance ranges 0 (noise) to 3 (market moving).
type NewsItem struct {
	Source      string    `json:"source"`
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	PublishTime time.Time `json:"time"`
	Importance  int       `json:"importance"`
	URL         string    `json:"url"`
	Symbols     []string  `json:"symbols"`
}

// EventItem is a structured corporate event (earnings, dividend, holder
// change...) derived from exchange notices.
type EventItem struct {
	Source      string    `json:"source"`
	ExternalID  string    `json:"external_id"`
	EventType   string    `json:"event_type"`
	Title       string    `json:"title"`
	PublishTime time.Time `json:"time"`
	Importance  int       `json:"importance"`
	URL         string    `json:"url"`
	Symbols     []string  `json:"symbols"`
}
