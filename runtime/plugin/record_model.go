package plugin

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/satishbabariya/recordguard/query/domain"
)

// RecordModel describes the record a plugin acts on.
type RecordModel struct {
	Token               string
	Table               string
	ID                  string
	IDs                 []string
	ColumnValues        domain.ColumnValues
	UpdatedColumnValues domain.ColumnValues
	DeletedColumnValues domain.ColumnValues
	Attachments         map[string][]string
}

// values returns the deleted values when there are any, else the column values.
func (m *RecordModel) values() domain.ColumnValues {
	if len(m.DeletedColumnValues) > 0 {
		return m.DeletedColumnValues
	}
	return m.ColumnValues
}

func (m *RecordModel) lookup(name string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values()[name]
	return v, ok
}

// ColumnValue returns a column as text. A nil value is "".
func (m *RecordModel) ColumnValue(name string) (string, bool) {
	v, ok := m.lookup(name)
	if !ok {
		return "", false
	}
	if v == nil {
		return "", true
	}
	return fmt.Sprint(v), true
}

// ColumnValueAs converts a column to T, returning the zero value when the
// column is missing or cannot be converted.
func ColumnValueAs[T any](m *RecordModel, name string) T {
	var zero T

	v, ok := m.lookup(name)
	if !ok || v == nil {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(v)
	case int:
		out, err = cast.ToIntE(v)
	case int64:
		out, err = cast.ToInt64E(v)
	case float64:
		out, err = cast.ToFloat64E(v)
	case bool:
		out, err = cast.ToBoolE(v)
	case time.Time:
		out, err = cast.ToTimeE(v)
	default:
		return zero
	}
	if err != nil {
		return zero
	}
	return out.(T)
}
