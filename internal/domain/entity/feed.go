package entity

import "time"

// FeedEntry is one syndicated item fetched from an RSS/Atom feed.
type FeedEntry struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary,omitempty"`
	Source    string    `json:"source,omitempty"`
}
