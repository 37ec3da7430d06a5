// Package core provides the core binding functionality including typed
// parameter conversion, column extraction, statement configuration, and
// scoped execution for sqlbind.
package core

// TypeCode identifies the database-side type of a bound parameter or an
// extracted column. It mirrors the type-code space exposed by SQL drivers so
// that a NULL parameter can still be bound with a concrete type.
type TypeCode int

// Supported type codes.
const (
	NullType TypeCode = iota
	BooleanType
	TinyIntType
	SmallIntType
	IntegerType
	BigIntType
	RealType
	DoubleType
	DecimalType
	VarcharType
	VarbinaryType
	DateType
	TimeType
	TimestampType
	TimestampTZType
)

var typeCodeNames = map[TypeCode]string{
	NullType:        "NULL",
	BooleanType:     "BOOLEAN",
	TinyIntType:     "TINYINT",
	SmallIntType:    "SMALLINT",
	IntegerType:     "INTEGER",
	BigIntType:      "BIGINT",
	RealType:        "REAL",
	DoubleType:      "DOUBLE",
	DecimalType:     "DECIMAL",
	VarcharType:     "VARCHAR",
	VarbinaryType:   "VARBINARY",
	DateType:        "DATE",
	TimeType:        "TIME",
	TimestampType:   "TIMESTAMP",
	TimestampTZType: "TIMESTAMP WITH TIME ZONE",
}

// String returns the SQL-style name of the type code.
func (c TypeCode) String() string {
	if name, ok := typeCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
