package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskValuesSensitiveStatement(t *testing.T) {
	s := NewSanitizer(nil)

	params := []any{"alice", "hunter2"}
	masked := s.MaskValues("UPDATE users SET password = ? WHERE name = ?", params)

	require.Len(t, masked, 2)
	assert.Equal(t, "***REDACTED***", masked[0])
	assert.Equal(t, "***REDACTED***", masked[1])

	// the input slice is untouched
	assert.Equal(t, "hunter2", params[1])
}

func TestMaskValuesPlainStatement(t *testing.T) {
	s := NewSanitizer(nil)

	params := []any{"alice", int64(1)}
	masked := s.MaskValues("UPDATE users SET name = ? WHERE id = ?", params)
	assert.Equal(t, params, masked)
}

func TestMaskValuesDefaultFieldSet(t *testing.T) {
	s := NewSanitizer(nil)

	for _, sql := range []string{
		"INSERT INTO t (api_key) VALUES (?)",
		"UPDATE t SET token = ?",
		"SELECT * FROM t WHERE ssn = ?",
		"update accounts set CREDIT_CARD = ?",
	} {
		masked := s.MaskValues(sql, []any{"secret-value"})
		assert.Equal(t, "***REDACTED***", masked[0], sql)
	}
}

func TestMaskValuesWordBoundary(t *testing.T) {
	s := NewSanitizer(nil)

	// underscore is a word character, so a longer identifier that merely
	// embeds the sensitive word does not trip the pattern
	masked := s.MaskValues("SELECT * FROM password_reset_log WHERE id = ?", []any{int64(1)})
	assert.Equal(t, int64(1), masked[0])

	masked = s.MaskValues("UPDATE t SET password = ?", []any{"x"})
	assert.Equal(t, "***REDACTED***", masked[0])
}

func TestMaskValuesCustomFields(t *testing.T) {
	s := NewSanitizer([]string{"pin_code"})

	masked := s.MaskValues("UPDATE cards SET pin_code = ?", []any{"1234"})
	assert.Equal(t, "***REDACTED***", masked[0])

	// custom list replaces the defaults entirely
	masked = s.MaskValues("UPDATE users SET password = ?", []any{"hunter2"})
	assert.Equal(t, "hunter2", masked[0])
}

func TestMaskValuesEmptyParams(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Empty(t, s.MaskValues("UPDATE t SET password = 'x'", nil))
}

func TestFormatValues(t *testing.T) {
	s := NewSanitizer(nil)

	assert.Equal(t, "[]", s.FormatValues(nil))
	assert.Equal(t, "[alice, 42, NULL]", s.FormatValues([]any{"alice", 42, nil}))
}

func TestFormatValuesTruncatesLongValues(t *testing.T) {
	s := NewSanitizer(nil)

	long := strings.Repeat("x", 200)
	out := s.FormatValues([]any{long})
	assert.Contains(t, out, "...")
	assert.Less(t, len(out), 120)
}
