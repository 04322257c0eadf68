package metadata

import (
	"strings"
	"time"
)

// Provenance is the note appended to an asset when a decomposition or
// assembly request touched it, e.g. "decomposed:9f1c...:2024-03-01T10:00:00Z".
// Notes are append-only so the asset keeps its full history.
type Provenance struct {
	action    string
	requestID string
	at        time.Time
}

const (
	ActionDecomposed string = "decomposed"
	ActionAssembled  string = "assembled"
)

func NewProvenance(action string, requestID string, at time.Time) Provenance {
	return Provenance{
		action:    action,
		requestID: requestID,
		at:        at.UTC(),
	}
}

func (p Provenance) Note() string {
	return p.action + ":" + p.requestID + ":" + p.at.Format(time.RFC3339)
}

// ParseProvenance reads a single provenance line back. Returns false for
// free-text notes that are not provenance records.
func ParseProvenance(note string) (Provenance, bool) {
	parts := strings.SplitN(note, ":", 3)
	if len(parts) != 3 {
		return Provenance{}, false
	}
	if parts[0] != ActionDecomposed && parts[0] != ActionAssembled {
		return Provenance{}, false
	}
	at, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Provenance{}, false
	}
	return Provenance{action: parts[0], requestID: parts[1], at: at}, true
}

func (p Provenance) Action() string    { return p.action }
func (p Provenance) RequestID() string { return p.requestID }
func (p Provenance) At() time.Time     { return p.at }
