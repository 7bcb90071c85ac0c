package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	july := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "PJ2407", Prefix(KindProject, july))
	assert.Equal(t, "CS2407", Prefix(KindCustomer, july))
	assert.Equal(t, "EXP2407", Prefix(KindExpense, july))

	january := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "PO2501", Prefix(KindPurchaseOrder, january))
}

func TestNextInSequence(t *testing.T) {
	tests := []struct {
		name    string
		maxCode string
		prefix  string
		width   int
		want    string
		wantErr bool
	}{
		{name: "first of month", maxCode: "", prefix: "PJ2407", width: 3, want: "PJ2407001"},
		{name: "increment", maxCode: "PJ2407004", prefix: "PJ2407", width: 3, want: "PJ2407005"},
		{name: "carries into padding", maxCode: "PJ2407099", prefix: "PJ2407", width: 3, want: "PJ2407100"},
		{name: "expense four digits", maxCode: "EXP24070012", prefix: "EXP2407", width: 4, want: "EXP24070013"},
		{name: "prefix mismatch", maxCode: "PJ2406004", prefix: "PJ2407", width: 3, wantErr: true},
		{name: "garbage suffix", maxCode: "PJ2407abc", prefix: "PJ2407", width: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextInSequence(tt.maxCode, tt.prefix, tt.width)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Sequential calls within one month must produce strictly increasing,
// consecutive codes.
func TestNextInSequenceMonotonic(t *testing.T) {
	prefix := "CS2407"
	code := ""
	var prev string
	for i := 1; i <= 12; i++ {
		next, err := NextInSequence(code, prefix, 3)
		require.NoError(t, err)
		if prev != "" {
			assert.Greater(t, next, prev)
		}
		prev = next
		code = next
	}
	assert.Equal(t, "CS2407012", code)
}

func TestDatedRandom(t *testing.T) {
	now := time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)

	got := DatedRandom("QT", now, func(n int) int { return 42 })
	assert.Equal(t, "QT20240715042", got)

	// No uniqueness guarantee is part of the contract; two calls may even
	// collide. Only shape is asserted for the default source.
	again := DatedRandom("IV", now, nil)
	require.Len(t, again, 2+8+3)
	assert.Equal(t, "IV20240715", again[:10])
}
