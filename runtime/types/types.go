// Package types classifies column types and normalizes scanned values.
package types

import (
	"database/sql"
	"strings"
	"time"
)

// DateTime represents a timestamp
type DateTime = time.Time

var binaryTypes = map[string]bool{
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"BINARY":     true,
	"VARBINARY":  true,
	"BYTEA":      true,
	"BIT":        true,
	"GEOMETRY":   true,
}

// IsBinaryType reports whether a database type name holds raw bytes.
func IsBinaryType(dbType string) bool {
	return binaryTypes[baseType(dbType)]
}

// IsDateTimeType reports whether a database type name holds a date or timestamp.
// TIME is excluded: midnight is a valid time of day.
func IsDateTimeType(dbType string) bool {
	t := baseType(dbType)
	return t == "DATE" || strings.HasPrefix(t, "DATETIME") || strings.HasPrefix(t, "TIMESTAMP")
}

// baseType upper-cases a type name and strips any length or precision.
func baseType(dbType string) string {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// IsZeroDateTime reports whether v is the zero date-time.
//
// The zero time.Time, an invalid sql.NullTime and MySQL's textual zero dates
// on date-typed columns all count.
func IsZeroDateTime(v any, dbType string) bool {
	switch t := v.(type) {
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t != nil && t.IsZero()
	case sql.NullTime:
		return !t.Valid || t.Time.IsZero()
	case string:
		return IsDateTimeType(dbType) && isZeroDateText(t)
	case []byte:
		return IsDateTimeType(dbType) && isZeroDateText(string(t))
	}
	return false
}

func isZeroDateText(s string) bool {
	s = strings.TrimSpace(s)
	return s == "0000-00-00" || strings.HasPrefix(s, "0000-00-00 00:00:00")
}

// Decode converts driver bytes to string unless the column is binary.
func Decode(v any, dbType string) any {
	if b, ok := v.([]byte); ok && !IsBinaryType(dbType) {
		return string(b)
	}
	return v
}
