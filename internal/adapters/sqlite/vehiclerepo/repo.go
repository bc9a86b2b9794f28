package vehiclerepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/vehiclerepo"
)

// Repo is a SQLite implementation of vehiclerepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, v vehiclerepo.Vehicle) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	credential := v.CredentialAccountID
	if credential == "" {
		credential = v.NationalID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (national_id, vehicle, vehicle_type, credential_account_id)
		VALUES (?, ?, ?, ?)
	`, string(v.NationalID), v.Vehicle, v.VehicleType, string(credential))
	if err != nil {
		if sqlite.IsForeignKeyViolation(err) {
			return vehiclerepo.ErrOwnerNotFound
		}
		return sqlite.Classify("create vehicle", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]vehiclerepo.Vehicle, error) {
	return r.query(ctx, "list vehicles", `
		SELECT national_id, vehicle, vehicle_type, credential_account_id
		FROM vehicles
		ORDER BY national_id ASC, id ASC
	`)
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.NationalID) ([]vehiclerepo.Vehicle, error) {
	return r.query(ctx, "list vehicles by owner", `
		SELECT national_id, vehicle, vehicle_type, credential_account_id
		FROM vehicles
		WHERE national_id = ?
		ORDER BY id ASC
	`, string(owner))
}

func (r *Repo) query(ctx context.Context, op string, query string, args ...any) ([]vehiclerepo.Vehicle, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.Classify(op, err)
	}
	defer rows.Close()

	out := make([]vehiclerepo.Vehicle, 0)
	for rows.Next() {
		var nationalID, vehicle, vehicleType, credential string
		if err := rows.Scan(&nationalID, &vehicle, &vehicleType, &credential); err != nil {
			return nil, sqlite.Classify(op, err)
		}
		out = append(out, vehiclerepo.Vehicle{
			NationalID:          domain.NationalID(nationalID),
			Vehicle:             vehicle,
			VehicleType:         vehicleType,
			CredentialAccountID: domain.NationalID(credential),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify(op, err)
	}
	return out, nil
}
