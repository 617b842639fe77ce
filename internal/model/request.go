package model

import "time"

// Request is one pending ingestion request: a bare textual plant name,
// possibly in any language, waiting to be turned into a full record.
// Requests are deleted on terminal success and left in place on failure
// so they can be retried.
type Request struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Requester string    `json:"requester,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
