package tarallo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuditChange(t *testing.T) {
	tests := []struct {
		code string
		want AuditChange
	}{
		{"C", ChangeCreate},
		{"U", ChangeUpdate},
		{"D", ChangeDelete},
		{"M", ChangeMove},
		{"L", ChangeLose},
		{"R", ChangeRename},
		{"?", ChangeUnknown},
		{"Z", ChangeUnknown},
		{"", ChangeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAuditChange(tt.code), "code %q", tt.code)
	}
}

func TestParseAuditEntries_Malformed(t *testing.T) {
	_, err := ParseAuditEntries([]byte(`{"not":"a list"}`))

	var invalid *InvalidObjectError
	require.ErrorAs(t, err, &invalid)
}
