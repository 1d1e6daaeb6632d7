package domain

import "strings"

// Column is one named value of a result row.
type Column struct {
	Name  string
	Value any
}

// Row is a result row in the column order returned by the store.
type Row []Column

// Get returns the value of the first column matching name, ignoring case.
func (r Row) Get(name string) (any, bool) {
	for _, c := range r {
		if strings.EqualFold(c.Name, name) {
			return c.Value, true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// Map returns the row as a map. Later duplicate names win.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, c := range r {
		m[c.Name] = c.Value
	}
	return m
}
