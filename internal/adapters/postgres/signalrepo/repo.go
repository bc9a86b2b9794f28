package signalrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
)

// Repo is a Postgres implementation of signalrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, s domain.TrafficSignal) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO traffic_signals (lat, lon, tl_id_sumo, tl_id_osm)
		VALUES ($1, $2, $3, $4)
	`, s.Lat, s.Lon, s.TLIDSumo, s.TLIDOSM)
	if err != nil {
		return postgres.Classify("create signal", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.TrafficSignal, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT lat, lon, tl_id_sumo, tl_id_osm
		FROM traffic_signals
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, postgres.Classify("list signals", err)
	}
	defer rows.Close()

	out := make([]domain.TrafficSignal, 0)
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, postgres.Classify("list signals", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify("list signals", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, at domain.Coordinates) (domain.TrafficSignal, error) {
	if r.pool == nil {
		return domain.TrafficSignal{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT lat, lon, tl_id_sumo, tl_id_osm
		FROM traffic_signals
		WHERE lat = $1 AND lon = $2
		ORDER BY id ASC
		LIMIT 1
	`, at.Lat, at.Lon)
	s, err := scanSignal(row)
	if err != nil {
		if errors.Is(err, signalrepo.ErrNotFound) {
			return domain.TrafficSignal{}, err
		}
		return domain.TrafficSignal{}, postgres.Classify("get signal", err)
	}
	return s, nil
}

func (r *Repo) Update(ctx context.Context, at domain.Coordinates, s domain.TrafficSignal) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE traffic_signals
		SET lat = $1, lon = $2, tl_id_sumo = $3, tl_id_osm = $4
		WHERE lat = $5 AND lon = $6
	`, s.Lat, s.Lon, s.TLIDSumo, s.TLIDOSM, at.Lat, at.Lon)
	if err != nil {
		return postgres.Classify("update signal", err)
	}
	if ct.RowsAffected() == 0 {
		return signalrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, at domain.Coordinates) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM traffic_signals
		WHERE lat = $1 AND lon = $2
	`, at.Lat, at.Lon)
	if err != nil {
		return postgres.Classify("delete signal", err)
	}
	if ct.RowsAffected() == 0 {
		return signalrepo.ErrNotFound
	}
	return nil
}

func scanSignal(row interface {
	Scan(dest ...any) error
}) (domain.TrafficSignal, error) {
	var s domain.TrafficSignal
	if err := row.Scan(&s.Lat, &s.Lon, &s.TLIDSumo, &s.TLIDOSM); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrafficSignal{}, signalrepo.ErrNotFound
		}
		return domain.TrafficSignal{}, err
	}
	return s, nil
}
