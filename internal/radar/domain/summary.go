package radar

import "time"

// Conclusion is one analytical takeaway inside a narrative summary.
type Conclusion struct {
	Point       string `json:"point"`
	Explanation string `json:"explanation"`
}

// Summary is the narrative reading generated from the newest content items.
type Summary struct {
	Conclusions   []Conclusion `json:"conclusions"`
	NationalPulse string       `json:"national_pulse"`
	GeneratedAt   time.Time    `json:"generated_at"`
}
