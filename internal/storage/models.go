package storage

// Outcome says what a successful Save did.
type Outcome int

const (
	// Saved means the record was appended to the store file.
	Saved Outcome = iota
	// Duplicate means a record with the same email or phone already exists.
	Duplicate
	// InFlight means another save for the same identity key is in progress.
	InFlight
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Duplicate:
		return "duplicate"
	case InFlight:
		return "in_flight"
	default:
		return "unknown"
	}
}

// SaveResult is returned by a successful Save.
type SaveResult struct {
	Path    string
	Outcome Outcome
}

// Stats summarizes the store for the admin dashboard.
type Stats struct {
	Total             int     `json:"total"`
	Recent24h         int     `json:"recent_24h"`
	Recent7d          int     `json:"recent_7d"`
	AverageExperience float64 `json:"avg_experience"`
	TopPosition       string  `json:"top_position,omitempty"`
}
