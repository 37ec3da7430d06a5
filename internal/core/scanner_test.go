package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Email   *string
	Active  bool `db:"active"`
	Balance decimal.Decimal
	Created time.Time `db:"created_at"`
	secret  string    // unexported, never scanned
	Skipped string    `db:"-"`
}

func TestScanRow(t *testing.T) {
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	r := rowOf(
		[]string{"id", "name", "email", "active", "balance", "created_at"},
		int64(7), "alice", "alice@example.com", true, "123.45", created,
	)

	u, err := ScanRow[user](r)
	require.NoError(t, err)

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "alice", u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "alice@example.com", *u.Email)
	assert.True(t, u.Active)
	assert.True(t, u.Balance.Equal(decimal.RequireFromString("123.45")))
	assert.True(t, created.Equal(u.Created))
	assert.Empty(t, u.secret)
	assert.Empty(t, u.Skipped)
}

func TestScanRowNullsLeaveZeroValues(t *testing.T) {
	r := rowOf(
		[]string{"id", "name", "email", "active"},
		int64(1), nil, nil, nil,
	)

	u, err := ScanRow[user](r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Empty(t, u.Name)
	assert.Nil(t, u.Email, "a NULL column leaves a pointer field nil")
	assert.False(t, u.Active)
}

func TestScanRowUnmatchedColumnsIgnored(t *testing.T) {
	r := rowOf([]string{"id", "no_such_field"}, int64(1), "ignored")

	u, err := ScanRow[user](r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestScanRowCaseInsensitiveFieldName(t *testing.T) {
	type row struct {
		Total int64
	}
	r := rowOf([]string{"TOTAL"}, int64(5))

	got, err := ScanRow[row](r)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Total)
}

func TestScanRowEmbeddedStruct(t *testing.T) {
	type timestamps struct {
		Created time.Time `db:"created_at"`
	}
	type account struct {
		timestamps
		ID int64 `db:"id"`
	}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rowOf([]string{"id", "created_at"}, int64(2), created)

	a, err := ScanRow[account](r)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.ID)
	assert.True(t, created.Equal(a.Created))
}

func TestScanRowDateAndClockFields(t *testing.T) {
	type shift struct {
		Day   Date  `db:"day"`
		Start Clock `db:"start"`
	}
	r := rowOf([]string{"day", "start"},
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "09:30:00")

	s, err := ScanRow[shift](r)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 15}, s.Day)
	assert.Equal(t, Clock{Hour: 9, Min: 30}, s.Start)
}

func TestScanRowMismatch(t *testing.T) {
	r := rowOf([]string{"id"}, "not a number")

	_, err := ScanRow[user](r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestScanRowNonStructTarget(t *testing.T) {
	r := rowOf([]string{"id"}, int64(1))

	_, err := ScanRow[int64](r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
