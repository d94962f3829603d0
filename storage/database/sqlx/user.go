package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/user"
)

type userRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Username     string     `db:"username"`
	IsActive     bool       `db:"is_active"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLogin    null.Time  `db:"last_login"`
}

func (r userRow) unrow() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string, exec ...core.DBExecutor) error {
	var exists bool
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &exists,
		`SELECT EXISTS (SELECT 1 FROM "user" WHERE username = $1)`, username)
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO "user" (id, name, username, is_active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		usr.ID, usr.Name, usr.Username, usr.IsActive, null.BytesFrom(usr.PasswordHash), usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	var r userRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return r.unrow(), nil
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (user.User, error) {
	var r userRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM "user" WHERE username = $1`, username); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return r.unrow(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE "user"
		SET name = $2, username = $3, is_active = $4, password_hash = $5, updated_at = $6, last_login = $7
		WHERE id = $1`,
		usr.ID, usr.Name, usr.Username, usr.IsActive, null.BytesFrom(usr.PasswordHash),
		time.Now().UTC(), null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}
