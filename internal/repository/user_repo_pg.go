package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyreserve/skyreserve/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerificationCode(ctx context.Context, id int64, codeHash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id int64) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (name, email, password_hash, is_admin, email_verified, verification_code_hash, verification_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.IsAdmin, user.EmailVerified, user.VerificationCodeHash, user.VerificationExpiresAt).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, is_admin, email_verified, verification_code_hash, verification_expires_at, created_at, updated_at FROM users WHERE id=$1`, id)
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, is_admin, email_verified, verification_code_hash, verification_expires_at, created_at, updated_at FROM users WHERE email=$1`, email)
}

func (r *PGUserRepository) get(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.EmailVerified, &u.VerificationCodeHash, &u.VerificationExpiresAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) SetVerificationCode(ctx context.Context, id int64, codeHash string, expiresAt time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET verification_code_hash=$1, verification_expires_at=$2, updated_at=now() WHERE id=$3`, codeHash, expiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkVerified flips the verified flag and clears the pending code so it
// cannot be confirmed a second time.
func (r *PGUserRepository) MarkVerified(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET email_verified=TRUE, verification_code_hash=NULL, verification_expires_at=NULL, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var _ UserRepository = (*PGUserRepository)(nil)
