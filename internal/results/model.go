package results

import "time"

// StateKey is the fixed key the raw analysis payload is stored under.
const StateKey = "cv_analysis_result"

// Export records one generated PDF report.
type Export struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"-"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Archived reports whether the report bytes can be downloaded again.
func (e Export) Archived() bool {
	return e.StorageKey != ""
}
