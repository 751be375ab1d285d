package tracking

import "time"

// Event is one widget interaction beacon. The api key is the only
// attribution: beacons arrive from arbitrary third-party pages with no
// further authentication, so unknown keys are dropped server-side.
type Event struct {
	APIKey    string         `json:"apiKey"`
	Platform  string         `json:"platform"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
