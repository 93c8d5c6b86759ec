package entity

import "time"

// Sentiment is the directional label assigned to a piece of financial text.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// Sentiments lists every label the model can produce, in display order.
var Sentiments = []Sentiment{SentimentBullish, SentimentBearish, SentimentNeutral}

// IsValid reports whether s is one of the known sentiment labels.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return true
	}
	return false
}

// Prediction is a single classification result. Scores holds the full
// per-class probability distribution (sums to 1 within floating tolerance,
// each value rounded to 4 decimals). Source and Published are only set when
// the text came from a feed.
type Prediction struct {
	Text       string                `json:"text"`
	Sentiment  Sentiment             `json:"sentiment"`
	Confidence float64               `json:"confidence"`
	Scores     map[Sentiment]float64 `json:"scores,omitempty"`
	Source     string                `json:"source,omitempty"`
	Published  time.Time             `json:"published,omitempty"`
}

// HasMetadata reports whether the prediction carries feed metadata.
func (p *Prediction) HasMetadata() bool {
	return p.Source != "" || !p.Published.IsZero()
}
