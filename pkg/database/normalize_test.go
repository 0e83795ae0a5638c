package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warncke/immutable-db/pkg/database"
)

// TestNormalizeRows verifies that NULL columns are cleared in place for
// every row while present values are untouched.
func TestNormalizeRows(t *testing.T) {
	rows := []database.Row{
		{"foo": nil, "bar": true},
		{"baz": nil},
		{"qux": "value"},
		{},
	}

	database.NormalizeRows(rows)

	assert.Equal(t, database.Row{"bar": true}, rows[0])
	assert.Equal(t, database.Row{}, rows[1])
	assert.Equal(t, database.Row{"qux": "value"}, rows[2])
	assert.Equal(t, database.Row{}, rows[3])
}

// TestNormalizeRowsOneLevelDeep verifies that normalization does not
// recurse into nested structures.
func TestNormalizeRowsOneLevelDeep(t *testing.T) {
	nested := map[string]any{"inner": nil}
	rows := []database.Row{{"data": nested}}

	database.NormalizeRows(rows)

	assert.Equal(t, nested, rows[0]["data"])
	assert.Contains(t, nested, "inner")
}

// TestNormalizeRowsEmpty verifies the no-op cases.
func TestNormalizeRowsEmpty(t *testing.T) {
	database.NormalizeRows(nil)
	database.NormalizeRows([]database.Row{})
}
