package model

import (
	"time"
)

const (
	JobStatusQueued     = "Queued"
	JobStatusProcessing = "Processing" // Worker holds the tenant lock
	JobStatusCompleted  = "Completed"
	JobStatusFailed     = "Failed"
)

// TranslationJob fills missing Marathi text for every document of one kind
// in one tenant.
type TranslationJob struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Documents int       `json:"documents"`
	Filled    int       `json:"filled"`
	Failed    int       `json:"failed"`
	Attempts  int       `json:"attempts"`
	LastError *string   `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
