package model

// EntryType distinguishes check-in from check-out events.
type EntryType string

const (
	EntryIn  EntryType = "in"
	EntryOut EntryType = "out"
)

// ParseEntryType validates a raw entry type string.
func ParseEntryType(s string) (EntryType, bool) {
	switch EntryType(s) {
	case EntryIn:
		return EntryIn, true
	case EntryOut:
		return EntryOut, true
	}
	return "", false
}

// TimestampLayout is the ISO-8601 second-precision layout for entry timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// TimeEntry is one immutable check-in/out event in the append-only log.
// Timestamp stays a string rather than a time.Time: manual entries may carry
// backdated or malformed values, and the mirror row builder needs the raw
// text to fall back to when the value does not parse.
type TimeEntry struct {
	EmployeeID string
	Timestamp  string
	Type       EntryType
}
