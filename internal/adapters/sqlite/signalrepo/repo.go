package signalrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/signalrepo"
)

// Repo is a SQLite implementation of signalrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, s domain.TrafficSignal) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO traffic_signals (lat, lon, tl_id_sumo, tl_id_osm)
		VALUES (?, ?, ?, ?)
	`, s.Lat, s.Lon, s.TLIDSumo, s.TLIDOSM)
	if err != nil {
		return sqlite.Classify("create signal", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.TrafficSignal, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT lat, lon, tl_id_sumo, tl_id_osm
		FROM traffic_signals
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, sqlite.Classify("list signals", err)
	}
	defer rows.Close()

	out := make([]domain.TrafficSignal, 0)
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, sqlite.Classify("list signals", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list signals", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, at domain.Coordinates) (domain.TrafficSignal, error) {
	if r.db == nil {
		return domain.TrafficSignal{}, errors.New("nil sqlite db")
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT lat, lon, tl_id_sumo, tl_id_osm
		FROM traffic_signals
		WHERE lat = ? AND lon = ?
		ORDER BY id ASC
		LIMIT 1
	`, at.Lat, at.Lon)
	s, err := scanSignal(row)
	if err != nil {
		if errors.Is(err, signalrepo.ErrNotFound) {
			return domain.TrafficSignal{}, err
		}
		return domain.TrafficSignal{}, sqlite.Classify("get signal", err)
	}
	return s, nil
}

func (r *Repo) Update(ctx context.Context, at domain.Coordinates, s domain.TrafficSignal) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE traffic_signals
		SET lat = ?, lon = ?, tl_id_sumo = ?, tl_id_osm = ?
		WHERE lat = ? AND lon = ?
	`, s.Lat, s.Lon, s.TLIDSumo, s.TLIDOSM, at.Lat, at.Lon)
	if err != nil {
		return sqlite.Classify("update signal", err)
	}
	return requireRows(res, "update signal")
}

func (r *Repo) Delete(ctx context.Context, at domain.Coordinates) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM traffic_signals
		WHERE lat = ? AND lon = ?
	`, at.Lat, at.Lon)
	if err != nil {
		return sqlite.Classify("delete signal", err)
	}
	return requireRows(res, "delete signal")
}

func requireRows(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sqlite.Classify(op, err)
	}
	if n == 0 {
		return signalrepo.ErrNotFound
	}
	return nil
}

func scanSignal(row interface {
	Scan(dest ...any) error
}) (domain.TrafficSignal, error) {
	var s domain.TrafficSignal
	if err := row.Scan(&s.Lat, &s.Lon, &s.TLIDSumo, &s.TLIDOSM); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TrafficSignal{}, signalrepo.ErrNotFound
		}
		return domain.TrafficSignal{}, err
	}
	return s, nil
}
