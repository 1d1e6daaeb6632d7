// Package plugin runs registered record plugins for an entity.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/client"
)

// ErrPluginNotFound is returned for an id with no registered plugin.
var ErrPluginNotFound = errors.New("plugin not found")

// Plugin acts on the record carried by an invocation.
type Plugin interface {
	Execute(ctx context.Context, inv *Invocation) error
}

// Func adapts a function to Plugin.
type Func func(ctx context.Context, inv *Invocation) error

// Execute calls f.
func (f Func) Execute(ctx context.Context, inv *Invocation) error {
	return f(ctx, inv)
}

// EntityPlugin binds a registered plugin to an entity.
type EntityPlugin struct {
	Entity   string
	PluginID string
}

// Store is the record access available to plugins.
type Store interface {
	GetRecordByID(ctx context.Context, ec domain.ExecutionContext, table string, id any) (domain.Row, error)
	Query(ctx context.Context, ec domain.ExecutionContext, q *domain.QueryDescriptor) ([]domain.Row, error)
	CreateRecord(ctx context.Context, ec domain.ExecutionContext, table string, values domain.ColumnValues) (client.CreatedRecord, error)
	UpdateRecord(ctx context.Context, ec domain.ExecutionContext, table string, id any, values domain.ColumnValues) error
	ExecuteNonQuery(ctx context.Context, ec domain.ExecutionContext, text string, params domain.Params) error
}

// Registry maps plugin ids to plugins. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin under id.
func (r *Registry) Register(id string, p Plugin) error {
	if id == "" || p == nil {
		return fmt.Errorf("plugin id and implementation are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[id]; exists {
		return fmt.Errorf("plugin %q already registered", id)
	}
	r.plugins[id] = p
	return nil
}

// Get returns the plugin registered under id.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, id)
	}
	return p, nil
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
