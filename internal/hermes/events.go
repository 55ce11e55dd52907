package hermes

import "time"

type ReportIngestedEvent struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	Generation uint64             `json:"generation"`
	Scores     map[string]float64 `json:"scores"`
	Timestamp  time.Time          `json:"timestamp"`
}

type ReportRejectedEvent struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type IndexRecomputedEvent struct {
	Index      float64            `json:"index"`
	IndexText  string             `json:"index_text"`
	Generation uint64             `json:"generation"`
	Weights    map[string]float64 `json:"weights"`
	Timestamp  time.Time          `json:"timestamp"`
}

type WeightsUpdatedEvent struct {
	Category  string    `json:"category"`
	Raw       string    `json:"raw"`
	Weight    float64   `json:"weight"`
	Timestamp time.Time `json:"timestamp"`
}
