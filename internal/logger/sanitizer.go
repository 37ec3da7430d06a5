package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer masks bind values before they reach a log line, so statements
// touching credential-like columns never leak secrets. Detection is based on
// column names appearing in the SQL text.
type Sanitizer struct {
	maskValue string
	patterns  []*regexp.Regexp
}

// defaultSensitiveFields are column-name fragments that flag a statement as
// carrying secrets.
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

// NewSanitizer creates a sanitizer for the given sensitive column names. An
// empty list selects the default set.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = defaultSensitiveFields
	}
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return &Sanitizer{
		maskValue: "***REDACTED***",
		patterns:  patterns,
	}
}

// MaskValues returns params with every value replaced by the mask when the
// SQL text mentions a sensitive column. The input slice is not modified.
// Masking is per-statement, not per-position: a statement that touches a
// secret column has all its values hidden.
func (s *Sanitizer) MaskValues(sql string, params []any) []any {
	if len(params) == 0 || !s.sensitive(sql) {
		return params
	}
	masked := make([]any, len(params))
	for i := range params {
		masked[i] = s.maskValue
	}
	return masked
}

// sensitive reports whether the SQL text mentions any sensitive column name.
func (s *Sanitizer) sensitive(sql string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(sql) {
			return true
		}
	}
	return false
}

// FormatValues renders bind values as one log-friendly string. Mask with
// MaskValues first.
func (s *Sanitizer) FormatValues(params []any) string {
	if len(params) == 0 {
		return "[]"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatValue(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatValue renders one bind value, truncating long values to keep log
// lines bounded.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)
	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
