package catalog

import "context"

// Catalog reports the fixed set of tables the in-memory store emulates.
type Catalog struct{}

func New() Catalog { return Catalog{} }

func (Catalog) ListTables(ctx context.Context) ([]string, error) {
	_ = ctx
	return []string{"traffic_signals", "users", "vehicles"}, nil
}
