package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"denti-directory/internal/domain/accounts"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

const usersTable = "users"

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type UsersRepo struct {
	db *sqlx.DB
}

func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ accounts.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u accounts.User) error {
	query, args, err := dialect.Insert(usersTable).Prepared(true).Rows(goqu.Record{
		"id":            u.ID,
		"email":         accounts.NormalizeEmail(u.Email),
		"display_name":  u.DisplayName,
		"password_hash": u.PasswordHash,
		"created_at":    u.CreatedAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return accounts.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	return r.getBy(ctx, goqu.Ex{"email": accounts.NormalizeEmail(email)})
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (accounts.User, error) {
	return r.getBy(ctx, goqu.Ex{"id": id})
}

func (r *UsersRepo) getBy(ctx context.Context, where goqu.Ex) (accounts.User, error) {
	query, args, err := dialect.From(usersTable).Prepared(true).
		Select("id", "email", "display_name", "password_hash", "created_at").
		Where(where).
		ToSQL()
	if err != nil {
		return accounts.User{}, fmt.Errorf("build get user: %w", err)
	}

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.User{}, accounts.ErrNotFound
		}
		return accounts.User{}, err
	}
	return accounts.User{
		ID:           row.ID,
		Email:        row.Email,
		DisplayName:  row.DisplayName,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}, nil
}
