package tarallo

import (
	"github.com/goccy/go-json"
)

// AuditChange is the kind of event recorded in an item's history.
type AuditChange string

const (
	ChangeCreate  AuditChange = "C"
	ChangeUpdate  AuditChange = "U"
	ChangeDelete  AuditChange = "D"
	ChangeMove    AuditChange = "M"
	ChangeLose    AuditChange = "L"
	ChangeRename  AuditChange = "R"
	ChangeUnknown AuditChange = "?"
)

// parseAuditChange maps a wire change code onto the closed set above.
// Codes introduced by newer servers decode to ChangeUnknown instead of
// failing the whole history fetch.
func parseAuditChange(code string) AuditChange {
	switch AuditChange(code) {
	case ChangeCreate, ChangeUpdate, ChangeDelete, ChangeMove, ChangeLose, ChangeRename:
		return AuditChange(code)
	default:
		return ChangeUnknown
	}
}

// AuditEntry is one immutable record from an item's history. Other
// carries optional free-form context, like the old location on a move.
type AuditEntry struct {
	User   string
	Change AuditChange
	Time   float64
	Other  string
}

type wireAuditEntry struct {
	User   string  `json:"user"`
	Change string  `json:"change"`
	Time   float64 `json:"time"`
	Other  *string `json:"other"`
}

// ParseAuditEntries decodes a history response into its entries, newest
// ordering as defined by the server.
func ParseAuditEntries(data []byte) ([]AuditEntry, error) {
	var raw []wireAuditEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidObjectError{Reason: "malformed history payload: " + err.Error()}
	}
	entries := make([]AuditEntry, 0, len(raw))
	for _, w := range raw {
		entry := AuditEntry{
			User:   w.User,
			Change: parseAuditChange(w.Change),
			Time:   w.Time,
		}
		if w.Other != nil {
			entry.Other = *w.Other
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
