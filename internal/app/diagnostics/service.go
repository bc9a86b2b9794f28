// Package diagnostics reports on the backing store for operators.
package diagnostics

import (
	"context"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/catalog"
)

type Service struct {
	catalog catalog.Catalog
}

func NewService(c catalog.Catalog) *Service {
	return &Service{catalog: c}
}

func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.catalog.ListTables(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return tables, nil
}
