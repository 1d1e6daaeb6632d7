package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/plugin"
)

func TestRecordModel_ColumnValue(t *testing.T) {
	m := &plugin.RecordModel{
		ColumnValues: domain.ColumnValues{"name": "acme", "count": 3, "empty": nil},
	}

	v, ok := m.ColumnValue("name")
	assert.True(t, ok)
	assert.Equal(t, "acme", v)

	v, ok = m.ColumnValue("count")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	v, ok = m.ColumnValue("empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = m.ColumnValue("missing")
	assert.False(t, ok)
}

func TestRecordModel_DeletedValuesWin(t *testing.T) {
	m := &plugin.RecordModel{
		ColumnValues:        domain.ColumnValues{"name": "current"},
		DeletedColumnValues: domain.ColumnValues{"name": "deleted"},
	}

	v, _ := m.ColumnValue("name")
	assert.Equal(t, "deleted", v)

	m.DeletedColumnValues = domain.ColumnValues{}
	v, _ = m.ColumnValue("name")
	assert.Equal(t, "current", v)
}

func TestColumnValueAs(t *testing.T) {
	m := &plugin.RecordModel{
		ColumnValues: domain.ColumnValues{
			"count":  "42",
			"ratio":  "0.5",
			"active": "true",
			"name":   "acme",
			"n":      int64(7),
		},
	}

	assert.Equal(t, 42, plugin.ColumnValueAs[int](m, "count"))
	assert.Equal(t, 0.5, plugin.ColumnValueAs[float64](m, "ratio"))
	assert.True(t, plugin.ColumnValueAs[bool](m, "active"))
	assert.Equal(t, int64(7), plugin.ColumnValueAs[int64](m, "n"))
	assert.Equal(t, "7", plugin.ColumnValueAs[string](m, "n"))

	assert.Equal(t, 0, plugin.ColumnValueAs[int](m, "name"))
	assert.Equal(t, 0, plugin.ColumnValueAs[int](m, "missing"))
	assert.Equal(t, 0, plugin.ColumnValueAs[int](nil, "count"))
}
