package locations

import (
	"strings"
	"time"
)

// Status represents the delivery lifecycle of a queued location.
type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
)

var allStatuses = []Status{
	StatusPending,
	StatusSyncing,
	StatusSynced,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Fix is a GPS reading submitted for enqueueing. Optional numeric attributes
// are pointers; nil means the capture source did not supply them.
type Fix struct {
	Latitude       float64
	Longitude      float64
	Altitude       *float64
	Accuracy       *float64
	Speed          *float64
	Bearing        *float64
	RecordedAt     time.Time
	Provider       string
	UserInvoked    bool
	ActivityTypeID *int64
	Notes          string
}

// Location is a queued location row persisted in SQLite.
type Location struct {
	ID              int64
	Latitude        float64
	Longitude       float64
	Altitude        *float64
	Accuracy        *float64
	Speed           *float64
	Bearing         *float64
	RecordedAt      time.Time
	Provider        string
	Status          Status
	Rejected        bool
	IdempotencyKey  string
	UserInvoked     bool
	ActivityTypeID  *int64
	Notes           string
	ServerConfirmed bool
	CreatedAt       time.Time
}

// IsSafeToEvict reports whether deleting the row carries no correctness cost:
// already delivered, or permanently rejected by the server.
func (l Location) IsSafeToEvict() bool {
	if l.Rejected {
		return true
	}
	return l.Status == StatusSynced
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total    int
	Pending  int
	Syncing  int
	Synced   int
	Rejected int
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	IntegrityCheck   bool
	TotalRows        int
	Error            string
}
