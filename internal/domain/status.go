package domain

import "strings"

// ClosureStatus is the opening state of a half day.
type ClosureStatus string

const (
	StatusOpen                ClosureStatus = "open"
	StatusRegularlyClosed     ClosureStatus = "regularly_closed"
	StatusExceptionallyClosed ClosureStatus = "exceptionally_closed"
)

var closureStatusLabels = map[ClosureStatus]string{
	StatusOpen:                "Ouvert",
	StatusRegularlyClosed:     "Fermeture habituelle",
	StatusExceptionallyClosed: "Fermeture exceptionnelle",
}

var closureStatusCodes = map[string]ClosureStatus{
	"open":                 StatusOpen,
	"ouvert":               StatusOpen,
	"regularly_closed":     StatusRegularlyClosed,
	"regular":              StatusRegularlyClosed,
	"ferme":                StatusRegularlyClosed,
	"exceptionally_closed": StatusExceptionallyClosed,
	"exceptional":          StatusExceptionallyClosed,
	"ferie":                StatusExceptionallyClosed,
}

// ClosureStatusLabel returns a human-readable label for a closure status.
func ClosureStatusLabel(status ClosureStatus) string {
	if label, ok := closureStatusLabels[status]; ok {
		return label
	}

	return closureStatusLabels[StatusOpen]
}

// ParseClosureStatus returns the status for a label (case-insensitive).
func ParseClosureStatus(label string) (ClosureStatus, bool) {
	status, ok := closureStatusCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}
