// Package dialects provides database-specific placeholder and identifier
// quoting rules for PostgreSQL, MySQL, and SQLite, used when named
// parameters are rewritten to positional form.
package dialects

// Dialect defines database-specific placeholder and quoting behavior.
type Dialect interface {
	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(string) string
	// Placeholder renders the positional parameter placeholder for the given
	// 1-based index.
	Placeholder(int) string
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// ForDriver retrieves the dialect registered for a driver name. Unknown
// drivers fall back to the question-mark placeholder with ANSI quoting,
// which most drivers accept.
func ForDriver(name string) Dialect {
	if d, ok := dialects[name]; ok {
		return d
	}
	return &SQLiteDialect{}
}
