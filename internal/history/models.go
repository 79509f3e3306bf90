package history

import (
	"time"

	"github.com/truthlens/truthlens/internal/api"
)

// Record is one completed analysis as stored locally. The embedded result is
// kept whole so a history entry can be reopened exactly as it was first
// shown.
type Record struct {
	ID        string              `json:"id"` // server request id, or a local uuid when absent
	Title     string              `json:"title"`
	Text      string              `json:"text"`
	Result    api.DetectionResult `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}
