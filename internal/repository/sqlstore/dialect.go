package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	// Registers the "pgx" driver with database/sql in init().
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqliteFoldFunc is the SQL name of the Unicode lowercasing function added to
// every SQLite connection. The built-in LOWER() only folds ASCII.
const sqliteFoldFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(sqliteFoldFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("registering %s: %v", sqliteFoldFunc, err))
	}
}

// unicodeLower folds its argument with strings.ToLower, the same function
// applied to search terms in Go. NULL stays NULL.
func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Dialect captures everything that differs between the two engines.
type Dialect interface {
	// Name doubles as the migrations sub-directory.
	Name() string
	DriverName() string
	MaxOpenConns() int
	Placeholder() squirrel.PlaceholderFormat
	Goose() goose.Dialect

	// TagsJSON returns an expression yielding the JSON array of tag names
	// associated with the entry column entryID, sorted by name; '[]' when none.
	TagsJSON(entryID string) string

	// Now returns the expression for the current timestamp in the stored format.
	Now() string

	// Fold returns expr lowercased with full Unicode case mapping, matching
	// strings.ToLower on the Go side.
	Fold(expr string) string
}

func dialectFor(b Backend) Dialect {
	if b == BackendPostgres {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                            { return "sqlite" }
func (sqliteDialect) DriverName() string                      { return "sqlite" }
func (sqliteDialect) MaxOpenConns() int                       { return 5 }
func (sqliteDialect) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }
func (sqliteDialect) Goose() goose.Dialect                    { return goose.DialectSQLite3 }

func (sqliteDialect) TagsJSON(entryID string) string {
	return `COALESCE((SELECT json_group_array(sub.name) FROM (` +
		`SELECT t.name FROM entry_tags et JOIN tags t ON t.id = et.tag_id ` +
		`WHERE et.entry_id = ` + entryID + ` ORDER BY t.name) sub), '[]')`
}

// Now matches the column default in the sqlite migrations, so text ordering
// of created_at/updated_at is chronological.
func (sqliteDialect) Now() string {
	return `strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`
}

func (sqliteDialect) Fold(expr string) string {
	return sqliteFoldFunc + "(" + expr + ")"
}

type postgresDialect struct{}

func (postgresDialect) Name() string                            { return "postgres" }
func (postgresDialect) DriverName() string                      { return "pgx" }
func (postgresDialect) MaxOpenConns() int                       { return 10 }
func (postgresDialect) Placeholder() squirrel.PlaceholderFormat { return squirrel.Dollar }
func (postgresDialect) Goose() goose.Dialect                    { return goose.DialectPostgres }

func (postgresDialect) TagsJSON(entryID string) string {
	return `COALESCE((SELECT json_agg(t.name ORDER BY t.name)::text ` +
		`FROM entry_tags et JOIN tags t ON t.id = et.tag_id ` +
		`WHERE et.entry_id = ` + entryID + `), '[]')`
}

func (postgresDialect) Now() string {
	return "NOW()"
}

// Fold relies on LOWER, which follows the database locale for non-ASCII
// letters on a UTF-8 database.
func (postgresDialect) Fold(expr string) string {
	return "LOWER(" + expr + ")"
}
