package core

import (
	"fmt"
	"regexp"
	"strings"
)

// NamedValues are parameter Values keyed by name, for statements written
// with {:name} placeholders.
//
// Example:
//
//	q, err := db.BindNamed("SELECT * FROM users WHERE id={:id} AND status={:status}",
//	    sqlbind.NamedValues{
//	        "id":     sqlbind.Int64Param.Bind(1),
//	        "status": sqlbind.StringParam.Bind("active"),
//	    })
type NamedValues map[string]Value

var (
	// namedPlaceholderRegex matches named parameter placeholders {:name}.
	namedPlaceholderRegex = regexp.MustCompile(`\{:(\w+)\}`)

	// quoteRegex matches identifier quoting syntax:
	// {{table_name}} quotes a table name, [[column_name]] quotes a column
	// name. Word characters, hyphens, dots, and spaces are allowed so
	// schema.table forms work.
	quoteRegex = regexp.MustCompile(`(\{\{[\w\-. ]+\}\}|\[\[[\w\-. ]+\]\])`)
)

// BindNamed rewrites {:name} placeholders to the driver's positional form
// and orders the values by appearance, so the result is a ready-to-run
// Query. The same name may appear multiple times; each occurrence binds the
// same value. {{table}} and [[column]] identifiers are quoted per dialect.
//
// A name with no entry in params fails with ErrInvalidConfig. This is
// placeholder rewriting only; the statement text is otherwise untouched.
func (db *DB) BindNamed(sqlText string, params NamedValues) (Query, error) {
	count := 0
	var missing []string
	var ordered []Value

	result := namedPlaceholderRegex.ReplaceAllStringFunc(sqlText, func(match string) string {
		count++
		name := match[2 : len(match)-1] // strip {: and }
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
		}
		ordered = append(ordered, v)
		return db.dialect.Placeholder(count)
	})

	if len(missing) > 0 {
		return Query{}, fmt.Errorf("%w: missing named parameters: %s",
			ErrInvalidConfig, strings.Join(missing, ", "))
	}

	result = quoteRegex.ReplaceAllStringFunc(result, func(match string) string {
		return db.quoteIdentifier(match[2 : len(match)-2])
	})

	return NewQuery(result).WithParams(ordered...), nil
}

// quoteIdentifier quotes an identifier per dialect. Schema-prefixed
// identifiers like "schema.table" are quoted part by part.
func (db *DB) quoteIdentifier(identifier string) string {
	if strings.Contains(identifier, ".") {
		parts := strings.Split(identifier, ".")
		quoted := make([]string, len(parts))
		for i, part := range parts {
			quoted[i] = db.dialect.QuoteIdentifier(strings.TrimSpace(part))
		}
		return strings.Join(quoted, ".")
	}
	return db.dialect.QuoteIdentifier(strings.TrimSpace(identifier))
}
