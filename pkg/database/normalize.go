package database

// NormalizeRows - replace the SQL NULL marker in every row field with
// the absent value by clearing the key. Works one level deep only: row
// fields are cleared, nested structures are left untouched. Mutates the
// rows in place.
func NormalizeRows(rows []Row) {
	for _, row := range rows {
		for field, value := range row {
			if value == nil {
				delete(row, field)
			}
		}
	}
}
