package contract

import "time"

const SchemaVersion = "v1"

type ErrorCode string

const (
	ErrGeneric      ErrorCode = "GENERIC_FAILURE"
	ErrInvalidUsage ErrorCode = "INVALID_USAGE"
	ErrState        ErrorCode = "STATE"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrConflict     ErrorCode = "CONFLICT"
)

type ErrorEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Error         ErrorBody      `json:"error"`
	Meta          map[string]any `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

type SuccessEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Command       string         `json:"command"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Data          any            `json:"data"`
	Meta          map[string]any `json:"meta"`
	Warnings      []string       `json:"warnings"`
}

type Calendar struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Active   bool   `json:"active"`
	Events   int    `json:"events"`
}

// Event times are wall-clock strings in the owning calendar's zone.
type Event struct {
	Calendar    string `json:"calendar"`
	Subject     string `json:"subject"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Timezone    string `json:"timezone"`
	AllDay      bool   `json:"all_day"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status"`
	SeriesID    string `json:"series_id,omitempty"`
}

type Occurrence struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}
