package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/recordguard/query/domain"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "mysql", want: "mysql"},
		{provider: "MariaDB", want: "mysql"},
		{provider: "postgresql", want: "postgres"},
		{provider: "pgx", want: "postgres"},
		{provider: "sqlite3", want: "sqlite"},
		{provider: "mongodb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := NewDialect(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestBind_Markers(t *testing.T) {
	stmt := Statement{
		Text:   "SELECT * FROM t WHERE a = @a AND b = @b OR a2 = @a",
		Params: domain.Params{"a": 1, "b": "x"},
	}

	tests := []struct {
		name     string
		dialect  Dialect
		wantText string
		wantArgs []any
	}{
		{
			name:     "mysql repeats arguments",
			dialect:  NewMySQL(),
			wantText: "SELECT * FROM t WHERE a = ? AND b = ? OR a2 = ?",
			wantArgs: []any{1, "x", 1},
		},
		{
			name:     "postgres reuses index",
			dialect:  NewPostgres(""),
			wantText: "SELECT * FROM t WHERE a = $1 AND b = $2 OR a2 = $1",
			wantArgs: []any{1, "x"},
		},
		{
			name:     "sqlite reuses index",
			dialect:  NewSQLite(),
			wantText: "SELECT * FROM t WHERE a = ?1 AND b = ?2 OR a2 = ?1",
			wantArgs: []any{1, "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, args, err := tt.dialect.Bind(stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBind_SkipsUnboundQuotedAndComments(t *testing.T) {
	stmt := Statement{
		Text: "SELECT '@a', \"@a\", @@version, @missing FROM t -- @a\n" +
			"WHERE x = @A /* @a */ AND s = 'it''s @a'",
		Params: domain.Params{"a": 7},
	}

	text, args, err := NewMySQL().Bind(stmt)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT '@a', \"@a\", @@version, @missing FROM t -- @a\n"+
			"WHERE x = ? /* @a */ AND s = 'it''s @a'",
		text)
	assert.Equal(t, []any{7}, args)
}

func TestBind_NoPlaceholders(t *testing.T) {
	text, args, err := NewSQLite().Bind(Statement{Text: "DELETE FROM t"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t", text)
	assert.Empty(t, args)
}

func TestBind_EmptyStatement(t *testing.T) {
	_, _, err := NewPostgres("").Bind(Statement{Text: "  "})
	assert.ErrorIs(t, err, ErrEmptyStatement)
}

func TestBind_CachedPlanUsesCurrentParams(t *testing.T) {
	d := NewPostgres("")
	text := "SELECT * FROM t WHERE id = @id"

	_, first, err := d.Bind(Statement{Text: text, Params: domain.Params{"id": "r-1"}})
	require.NoError(t, err)
	_, second, err := d.Bind(Statement{Text: text, Params: domain.Params{"id": "r-2"}})
	require.NoError(t, err)

	assert.Equal(t, []any{"r-1"}, first)
	assert.Equal(t, []any{"r-2"}, second)
	assert.Equal(t, 1, d.plans.cache.Len())
}

func TestStatement_WithDefault(t *testing.T) {
	base := Statement{Text: "x", Params: domain.Params{"BusinessUnitId": "bu7"}}

	kept := base.WithDefault("businessUnitId", "bu1")
	assert.Equal(t, domain.Params{"BusinessUnitId": "bu7"}, kept.Params)

	added := base.WithDefault("creatorId", "u1")
	assert.Equal(t, "u1", added.Params["creatorId"])
	assert.NotContains(t, base.Params, "creatorId")
	assert.Equal(t, []string{"BusinessUnitId", "creatorId"}, added.ParamNames())
}

func TestPostgres_ReturningColumn(t *testing.T) {
	var d Dialect = NewPostgres("id")
	r, ok := d.(Returner)
	require.True(t, ok)
	assert.Equal(t, "id", r.ReturningColumn())

	_, ok = Dialect(NewMySQL()).(Returner)
	assert.False(t, ok)
}
