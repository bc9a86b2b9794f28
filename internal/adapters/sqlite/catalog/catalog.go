package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
)

// Catalog lists user tables from sqlite_master.
type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) ListTables(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	rows, err := c.db.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, sqlite.Classify("list tables", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, sqlite.Classify("list tables", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list tables", err)
	}
	return out, nil
}
