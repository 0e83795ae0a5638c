package idx_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warncke/immutable-db/pkg/idx"
)

var (
	idPattern        = regexp.MustCompile(`^[0-9A-Z]{32}$`)
	timestampPattern = regexp.MustCompile(`^\d{4}-\d\d-\d\d \d\d:\d\d:\d\d\.\d{6}$`)
)

// TestNewIdFormat verifies that generated ids are exactly 32 characters
// drawn from digits and uppercase letters and that timestamps carry
// microsecond precision.
func TestNewIdFormat(t *testing.T) {
	id := idx.New()

	assert.Regexp(t, idPattern, id.Id)
	assert.Regexp(t, timestampPattern, id.Timestamp)
}

// TestNewIdUniqueness verifies that ids do not collide within a
// reasonable number of generations.
func TestNewIdUniqueness(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 10000; i++ {
		id := idx.New()
		require.False(t, seen[id.Id], "duplicate id generated: %s", id.Id)
		seen[id.Id] = true
	}
}

// TestTimestampParses verifies that generated timestamps round-trip
// through the layout they are documented to use.
func TestTimestampParses(t *testing.T) {
	id := idx.New()

	parsed, err := time.Parse("2006-01-02 15:04:05.000000", id.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

// TestNowFormat verifies the standalone timestamp helper used for
// response events.
func TestNowFormat(t *testing.T) {
	assert.Regexp(t, timestampPattern, idx.Now())
}
