package mysqldb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/warncke/immutable-db/pkg/database"
	"github.com/warncke/immutable-db/pkg/errorx"
)

// namedPlaceholder - :name placeholders bound from the params map, the
// binding style of the classic MariaDB client.
var namedPlaceholder = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)

// keywords whose statements produce a result set. Everything else is
// dispatched through Exec to surface affected rows and insert id.
var resultSetKeywords = map[string]bool{
	"SELECT":   true,
	"SHOW":     true,
	"DESCRIBE": true,
	"DESC":     true,
	"EXPLAIN":  true,
	"WITH":     true,
}

// QueryContext - execute one query. Named :param placeholders are bound
// from the params map in order of appearance. Statements returning a
// result set are scanned into rows with nil marking SQL NULL; other
// statements report affected rows and insert id through Info.
func (c *MySQLConn) QueryContext(ctx context.Context, query string, params map[string]any, options map[string]any) (*database.Result, error) {
	boundQuery, args := bindNamedParams(query, params)

	if returnsRows(boundQuery) {
		return c.queryRows(ctx, boundQuery, args)
	}

	return c.exec(ctx, boundQuery, args)
}

func (c *MySQLConn) queryRows(ctx context.Context, query string, args []any) (*database.Result, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, asQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, asQueryError(err)
	}

	result := &database.Result{}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, asQueryError(err)
		}

		row := database.Row{}
		for i, column := range columns {
			row[column] = decodeValue(values[i])
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, asQueryError(err)
	}

	result.Info = database.Info{
		NumRows:      strconv.Itoa(len(result.Rows)),
		AffectedRows: "0",
		InsertId:     "0",
	}

	return result, nil
}

func (c *MySQLConn) exec(ctx context.Context, query string, args []any) (*database.Result, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, asQueryError(err)
	}

	affectedRows, err := res.RowsAffected()
	if err != nil {
		affectedRows = 0
	}

	insertId, err := res.LastInsertId()
	if err != nil {
		insertId = 0
	}

	return &database.Result{
		Info: database.Info{
			NumRows:      "0",
			AffectedRows: strconv.FormatInt(affectedRows, 10),
			InsertId:     strconv.FormatInt(insertId, 10),
		},
	}, nil
}

// bindNamedParams - replace :name placeholders with ? and collect the
// matching values from the params map in order of appearance. Missing
// keys bind as nil. Queries without placeholders pass through verbatim.
func bindNamedParams(query string, params map[string]any) (string, []any) {
	if len(params) == 0 {
		return query, nil
	}

	var args []any

	bound := namedPlaceholder.ReplaceAllStringFunc(query, func(match string) string {
		args = append(args, params[match[1:]])
		return "?"
	})

	return bound, args
}

// returnsRows - report whether the statement's leading keyword produces
// a result set.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}

	return resultSetKeywords[strings.ToUpper(fields[0])]
}

// decodeValue - convert driver values to plain row values. Byte slices
// become strings, SQL NULL stays nil as the normalization marker.
func decodeValue(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v
	default:
		return v
	}
}

// asQueryError - convert driver errors to errorx.QueryError carrying
// the server's numeric error code. Non-server errors pass through
// unchanged.
func asQueryError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errorx.NewQueryErrorWrapper(err, int(mysqlErr.Number), true, "%s", mysqlErr.Message)
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return errorx.NewQueryErrorWrapper(err, 0, true, "%s", err.Error())
	}

	return err
}
