package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
)

// Catalog lists the tables visible in the connection's current schema.
type Catalog struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) ListTables(ctx context.Context) ([]string, error) {
	if c.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := c.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name ASC
	`)
	if err != nil {
		return nil, postgres.Classify("list tables", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, postgres.Classify("list tables", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify("list tables", err)
	}
	return out, nil
}
