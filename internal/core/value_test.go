package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterBind(t *testing.T) {
	v := StringParam.Bind("hello")
	assert.Equal(t, "hello", v.Raw())
	assert.Equal(t, VarcharType, v.Code())
	assert.False(t, v.IsNull())

	v = Int64Param.Bind(42)
	assert.Equal(t, int64(42), v.Raw())
	assert.Equal(t, BigIntType, v.Code())

	// int normalizes to int64 so drivers see one integer width
	v = IntParam.Bind(7)
	assert.Equal(t, int64(7), v.Raw())
	assert.Equal(t, BigIntType, v.Code())

	v = BoolParam.Bind(true)
	assert.Equal(t, true, v.Raw())
	assert.Equal(t, BooleanType, v.Code())

	v = BytesParam.Bind([]byte{0x01, 0x02})
	assert.Equal(t, []byte{0x01, 0x02}, v.Raw())
	assert.Equal(t, VarbinaryType, v.Code())
}

func TestConverterNull(t *testing.T) {
	v := Int64Param.Null()
	assert.True(t, v.IsNull())
	assert.Equal(t, BigIntType, v.Code())

	// a typed NULL still renders its type in logs
	assert.Equal(t, "NULL(BIGINT)", v.String())
}

func TestConverterBindPtr(t *testing.T) {
	s := "present"
	v := StringParam.BindPtr(&s)
	assert.False(t, v.IsNull())
	assert.Equal(t, "present", v.Raw())

	v = StringParam.BindPtr(nil)
	assert.True(t, v.IsNull())
	assert.Equal(t, VarcharType, v.Code())
}

func TestConverterBindSliceAndMap(t *testing.T) {
	vs := Int64Param.BindSlice([]int64{1, 2, 3})
	require.Len(t, vs, 3)
	assert.Equal(t, int64(2), vs[1].Raw())

	m := StringParam.BindMap(map[string]string{"a": "x", "b": "y"})
	require.Len(t, m, 2)
	assert.Equal(t, "y", m["b"].Raw())
}

func TestDecimalParamBindsCanonicalString(t *testing.T) {
	d := decimal.RequireFromString("1234.5678")
	v := DecimalParam.Bind(d)
	assert.Equal(t, DecimalType, v.Code())
	assert.Equal(t, "1234.5678", v.Raw())
}

func TestTimeConverters(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, loc)

	v := TimeParam.Bind(ts)
	assert.Equal(t, TimestampType, v.Code())
	assert.Equal(t, ts, v.Raw())

	// instants normalize to UTC before binding
	v = InstantParam.Bind(ts)
	assert.Equal(t, TimestampTZType, v.Code())
	assert.Equal(t, ts.UTC(), v.Raw())

	v = DateParam.Bind(Date{Year: 2024, Month: time.March, Day: 15})
	assert.Equal(t, DateType, v.Code())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), v.Raw())

	v = ClockParam.Bind(Clock{Hour: 10, Min: 30, Sec: 5})
	assert.Equal(t, TimeType, v.Code())
	assert.Equal(t, "10:30:05", v.Raw())
}

func TestDateOfAndClockOf(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 5, 123, time.UTC)

	d := DateOf(ts)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 15}, d)
	assert.Equal(t, "2024-03-15", d.String())

	c := ClockOf(ts)
	assert.Equal(t, Clock{Hour: 10, Min: 30, Sec: 5, Nsec: 123}, c)
}

func TestCustomConverter(t *testing.T) {
	type userID int64
	conv := NewConverter(BigIntType, func(v userID) any { return int64(v) })

	v := conv.Bind(userID(99))
	assert.Equal(t, int64(99), v.Raw())
	assert.Equal(t, BigIntType, v.Code())
}

func TestDynamicBind(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		raw  any
		code TypeCode
	}{
		{"string", "s", "s", VarcharType},
		{"bool", true, true, BooleanType},
		{"int", 5, int64(5), BigIntType},
		{"int8", int8(5), int8(5), TinyIntType},
		{"int16", int16(5), int16(5), SmallIntType},
		{"int32", int32(5), int32(5), IntegerType},
		{"int64", int64(5), int64(5), BigIntType},
		{"float32", float32(1.5), float32(1.5), RealType},
		{"float64", 1.5, 1.5, DoubleType},
		{"bytes", []byte("b"), []byte("b"), VarbinaryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Bind(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, v.Raw())
			assert.Equal(t, tt.code, v.Code())
		})
	}
}

func TestDynamicBindNulls(t *testing.T) {
	v, err := Bind(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, NullType, v.Code())

	var p *int64
	v, err = Bind(p)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, BigIntType, v.Code())

	var b []byte
	v, err = Bind(b)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, VarbinaryType, v.Code())
}

func TestDynamicBindPassthrough(t *testing.T) {
	orig := Float64Param.Bind(2.5)
	v, err := Bind(orig)
	require.NoError(t, err)
	assert.Equal(t, orig, v)
}

func TestDynamicBindUnsupported(t *testing.T) {
	_, err := Bind(struct{ X int }{X: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Bind(map[int]int{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestBindAll(t *testing.T) {
	vs, err := BindAll("a", 1, nil, true)
	require.NoError(t, err)
	require.Len(t, vs, 4)
	assert.Equal(t, "a", vs[0].Raw())
	assert.Equal(t, int64(1), vs[1].Raw())
	assert.True(t, vs[2].IsNull())
	assert.Equal(t, true, vs[3].Raw())

	_, err = BindAll("a", struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "argument 2")
}
