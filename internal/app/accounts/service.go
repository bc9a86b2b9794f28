package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/app/apperr"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/platform/auth/password"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

// Hasher hashes and checks account passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// Issuer signs bearer tokens for authenticated accounts.
type Issuer interface {
	Issue(subject domain.NationalID, role domain.Role, ttl time.Duration) (string, error)
}

type Service struct {
	repo   accountrepo.Repository
	hasher Hasher
	issuer Issuer

	// TokenTTL is passed to the issuer; zero uses the issuer's default.
	TokenTTL time.Duration
}

func NewService(repo accountrepo.Repository, hasher Hasher, issuer Issuer) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer}
}

type CreateInput struct {
	NationalID  string
	Name        string
	PhoneNumber string
	Email       string
	Password    string
	Role        domain.Role
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	TokenType   string
	Account     domain.Account
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Account, error) {
	rec, err := validateCreate(in)
	if err != nil {
		return domain.Account{}, err
	}

	if _, err := s.repo.GetByNationalID(ctx, rec.NationalID); err == nil {
		return domain.Account{}, conflict()
	} else if !errors.Is(err, accountrepo.ErrNotFound) {
		return domain.Account{}, apperr.Store(err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return domain.Account{}, apperr.Validation("invalid password", map[string]any{"password": "must be at most 72 bytes"})
		}
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}
	rec.PasswordHash = digest

	if err := s.repo.Create(ctx, rec); err != nil {
		// Lost a race with a concurrent signup for the same id.
		if errors.Is(err, accountrepo.ErrAlreadyExists) {
			return domain.Account{}, conflict()
		}
		return domain.Account{}, apperr.Store(err)
	}
	return toDomain(rec), nil
}

// Authenticate checks a national id and password and issues a token for the account.
// Unknown ids and wrong passwords fail identically.
func (s *Service) Authenticate(ctx context.Context, nationalID, plaintext string) (Session, error) {
	id := domain.NationalID(strings.TrimSpace(nationalID))
	if id == "" || plaintext == "" {
		return Session{}, invalidCredentials()
	}
	rec, err := s.repo.GetByNationalID(ctx, id)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return Session{}, invalidCredentials()
		}
		return Session{}, apperr.Store(err)
	}
	ok, err := s.hasher.Verify(plaintext, rec.PasswordHash)
	if err != nil {
		// A broken stored digest still reads as bad credentials to the caller.
		return Session{}, unverifiable(rec.NationalID, err)
	}
	if !ok {
		return Session{}, invalidCredentials()
	}

	tok, err := s.issuer.Issue(rec.NationalID, rec.Role, s.TokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		AccessToken: tok,
		TokenType:   "bearer",
		Account:     toDomain(rec),
	}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	out := make([]domain.Account, 0, len(recs))
	for _, r := range recs {
		out = append(out, toDomain(r))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id domain.NationalID) (domain.Account, error) {
	rec, err := s.repo.GetByNationalID(ctx, id)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			return domain.Account{}, apperr.NotFound("User not found")
		}
		return domain.Account{}, apperr.Store(err)
	}
	return toDomain(rec), nil
}

func validateCreate(in CreateInput) (accountrepo.Account, error) {
	details := map[string]any{}
	id := strings.TrimSpace(in.NationalID)
	if id == "" {
		details["national_id"] = "must be non-empty"
	}
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		details["name"] = "must be non-empty"
	}
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		details["phone_number"] = "must be non-empty"
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		details["email"] = err.Error()
	}
	if in.Password == "" {
		details["password"] = "must be non-empty"
	}
	if !in.Role.Valid() {
		details["type"] = fmt.Sprintf("must be one of %s, %s, %s", domain.RoleCitizen, domain.RoleOperator, domain.RoleAdmin)
	}
	if len(details) > 0 {
		return accountrepo.Account{}, apperr.Validation("invalid account", details)
	}
	return accountrepo.Account{
		NationalID:  domain.NationalID(id),
		Name:        name,
		PhoneNumber: phone,
		Email:       email,
		Role:        in.Role,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("must be a valid email address")
	}
	return nil
}

func conflict() error {
	return apperr.Conflict("National ID already registered")
}

func invalidCredentials() error {
	return apperr.Unauthorized("Invalid national ID or password")
}

func unverifiable(id domain.NationalID, err error) error {
	ae := apperr.Unauthorized("Invalid national ID or password")
	ae.Cause = fmt.Errorf("verify password for account %s: %w", id, err)
	return ae
}

func toDomain(r accountrepo.Account) domain.Account {
	return domain.Account{
		NationalID:  r.NationalID,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		Role:        r.Role,
	}
}
