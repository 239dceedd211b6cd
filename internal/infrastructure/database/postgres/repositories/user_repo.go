package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/turtacn/patent-litigation-graph/internal/domain/user"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

const userColumns = `id, name, username, email, password_hash, last_login_at, created_at, updated_at`

type postgresUserRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

func NewPostgresUserRepo(conn *postgres.Connection, log logging.Logger) user.UserRepository {
	return &postgresUserRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
	}
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if code, constraint := pqCode(err); code == pqUniqueViolation {
			switch constraint {
			case "users_email_key":
				return errors.Wrap(err, errors.ErrCodeEmailExists, "email already exists")
			case "users_username_key":
				return errors.Wrap(err, errors.ErrCodeUsernameExists, "username already exists")
			}
			return errors.Wrap(err, errors.ErrCodeConflict, "user already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create user")
	}
	return nil
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.executor.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.executor.QueryRowContext(ctx, query, username))
}

func (r *postgresUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND email <> '')`, email)
}

func (r *postgresUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *postgresUserRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.executor.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check user existence")
	}
	return ok, nil
}

func (r *postgresUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	res, err := r.executor.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update last login")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.NotFound("user not found").WithDetail("id=" + id.String())
	}
	return nil
}

func scanUser(row scanner) (*user.User, error) {
	u := &user.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan user")
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

//Personal.AI order the ending
