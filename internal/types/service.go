package types

import "time"

// APIToken is the persisted record of an issued bearer credential. Only the
// hash of the token is stored; the plaintext is shown once at mint time.
type APIToken struct {
	TokenHash string     `json:"tokenHash"`
	OwnerID   string     `json:"ownerId"`
	Label     string     `json:"label,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// ServiceStats holds aggregate store statistics for the health endpoint.
type ServiceStats struct {
	EntryCount int64 `json:"entryCount"`
	TaskCount  int64 `json:"taskCount"`
	GoalCount  int64 `json:"goalCount"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	EntryCount int64  `json:"entryCount"`
	TaskCount  int64  `json:"taskCount"`
	GoalCount  int64  `json:"goalCount"`
}
