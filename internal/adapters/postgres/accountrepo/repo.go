package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

// Repo is a Postgres implementation of accountrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a accountrepo.Account) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (national_id, name, phone_number, email, password, type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		string(a.NationalID),
		a.Name,
		a.PhoneNumber,
		a.Email,
		a.PasswordHash,
		string(a.Role),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return accountrepo.ErrAlreadyExists
		}
		return postgres.Classify("create account", err)
	}
	return nil
}

func (r *Repo) GetByNationalID(ctx context.Context, id domain.NationalID) (accountrepo.Account, error) {
	if r.pool == nil {
		return accountrepo.Account{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT national_id, name, phone_number, email, password, type
		FROM users
		WHERE national_id = $1
	`, string(id))
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return accountrepo.Account{}, err
		}
		return accountrepo.Account{}, postgres.Classify("get account", err)
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]accountrepo.Account, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT national_id, name, phone_number, email, password, type
		FROM users
		ORDER BY national_id ASC
	`)
	if err != nil {
		return nil, postgres.Classify("list accounts", err)
	}
	defer rows.Close()

	out := make([]accountrepo.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, postgres.Classify("list accounts", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.Classify("list accounts", err)
	}
	return out, nil
}

func scanAccount(row interface {
	Scan(dest ...any) error
}) (accountrepo.Account, error) {
	var (
		nationalID string
		role       string
		a          accountrepo.Account
	)
	if err := row.Scan(&nationalID, &a.Name, &a.PhoneNumber, &a.Email, &a.PasswordHash, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accountrepo.Account{}, accountrepo.ErrNotFound
		}
		return accountrepo.Account{}, err
	}
	a.NationalID = domain.NationalID(nationalID)
	a.Role = domain.Role(role)
	return a, nil
}
