package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

// Repo is a SQLite implementation of accountrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, a accountrepo.Account) error {
	if r.db == nil {
		return errors.New("nil sqlite db")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (national_id, name, phone_number, email, password, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(a.NationalID), a.Name, a.PhoneNumber, a.Email, a.PasswordHash, string(a.Role))
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return accountrepo.ErrAlreadyExists
		}
		return sqlite.Classify("create account", err)
	}
	return nil
}

func (r *Repo) GetByNationalID(ctx context.Context, id domain.NationalID) (accountrepo.Account, error) {
	if r.db == nil {
		return accountrepo.Account{}, errors.New("nil sqlite db")
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT national_id, name, phone_number, email, password, type
		FROM users
		WHERE national_id = ?
	`, string(id))
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return accountrepo.Account{}, err
		}
		return accountrepo.Account{}, sqlite.Classify("get account", err)
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]accountrepo.Account, error) {
	if r.db == nil {
		return nil, errors.New("nil sqlite db")
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT national_id, name, phone_number, email, password, type
		FROM users
		ORDER BY national_id ASC
	`)
	if err != nil {
		return nil, sqlite.Classify("list accounts", err)
	}
	defer rows.Close()

	out := make([]accountrepo.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, sqlite.Classify("list accounts", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify("list accounts", err)
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
		if errors.Is(err, sql.ErrNoRows) {
			return accountrepo.Account{}, accountrepo.ErrNotFound
		}
		return accountrepo.Account{}, err
	}
	a.NationalID = domain.NationalID(nationalID)
	a.Role = domain.Role(role)
	return a, nil
}
