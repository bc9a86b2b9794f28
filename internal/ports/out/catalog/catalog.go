package catalog

import "context"

// Catalog exposes metadata about the backing store.
type Catalog interface {
	// ListTables returns the table names of the store, sorted.
	ListTables(ctx context.Context) ([]string, error)
}
