package dto

// FootpathResponse carries -1 in DurationSeconds when the pair has no walking route.
type FootpathResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	DurationSeconds float64 `json:"duration_seconds"`
	Routed          bool    `json:"routed"`
}
