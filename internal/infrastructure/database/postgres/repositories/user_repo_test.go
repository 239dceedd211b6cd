package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/patent-litigation-graph/internal/domain/user"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock   sqlmock.Sqlmock
	db     *sql.DB
	repo   user.UserRepository
	logger logging.Logger
}

func (s *UserRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	s.logger = logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, s.logger)
	s.repo = NewPostgresUserRepo(conn, s.logger)
}

func (s *UserRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "last_login_at", "created_at", "updated_at"})
}

func (s *UserRepoTestSuite) TestCreate_Success() {
	u := user.NewUser("Ada", "ada", "ada@example.com", "$2a$hash")
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, "Ada", "ada", "ada@example.com", "$2a$hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s.Require().NoError(s.repo.Create(context.Background(), u))
	s.Equal(now, u.CreatedAt)
}

func (s *UserRepoTestSuite) TestCreate_AssignsID() {
	u := &user.User{Name: "Bob", Username: "bob", PasswordHash: "h"}
	s.mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	s.Require().NoError(s.repo.Create(context.Background(), u))
	s.NotEqual(uuid.Nil, u.ID)
}

func (s *UserRepoTestSuite) TestCreate_UniqueViolations() {
	cases := map[string]errors.ErrorCode{
		"users_email_key":    errors.ErrCodeEmailExists,
		"users_username_key": errors.ErrCodeUsernameExists,
		"other_key":          errors.ErrCodeConflict,
	}
	for constraint, code := range cases {
		s.mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: constraint})

		err := s.repo.Create(context.Background(), user.NewUser("n", "u", "e@x.io", "h"))
		s.True(errors.IsCode(err, code), constraint)
		s.True(errors.IsConflict(err), constraint)
	}
}

func (s *UserRepoTestSuite) TestCreate_DatabaseError() {
	s.mock.ExpectQuery("INSERT INTO users").WillReturnError(sql.ErrConnDone)

	err := s.repo.Create(context.Background(), user.NewUser("n", "u", "", "h"))
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *UserRepoTestSuite) TestGetByUsername_Found() {
	id := uuid.New()
	login := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	s.mock.ExpectQuery("SELECT id, name, username, email, password_hash, last_login_at, created_at, updated_at FROM users WHERE username = \\$1").
		WithArgs("ada").
		WillReturnRows(userRows().AddRow(id, "Ada", "ada", "ada@example.com", "hash", login, time.Now(), time.Now()))

	u, err := s.repo.GetByUsername(context.Background(), "ada")
	s.Require().NoError(err)
	s.Equal(id, u.ID)
	s.Equal("hash", u.PasswordHash)
	s.Require().NotNil(u.LastLoginAt)
	s.Equal(login, *u.LastLoginAt)
}

func (s *UserRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	s.mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs(id).WillReturnRows(userRows())

	u, err := s.repo.GetByID(context.Background(), id)
	s.Nil(u)
	s.True(errors.IsNotFound(err))
}

func (s *UserRepoTestSuite) TestExistsByEmail() {
	s.mock.ExpectQuery("SELECT EXISTS").WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.repo.ExistsByEmail(context.Background(), "ada@example.com")
	s.NoError(err)
	s.True(ok)
}

func (s *UserRepoTestSuite) TestExistsByUsername_Error() {
	s.mock.ExpectQuery("SELECT EXISTS").WithArgs("ada").WillReturnError(sql.ErrConnDone)

	_, err := s.repo.ExistsByUsername(context.Background(), "ada")
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *UserRepoTestSuite) TestUpdateLastLogin() {
	id := uuid.New()
	s.mock.ExpectExec("UPDATE users SET last_login_at").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.UpdateLastLogin(context.Background(), id))

	s.mock.ExpectExec("UPDATE users SET last_login_at").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	s.True(errors.IsNotFound(s.repo.UpdateLastLogin(context.Background(), id)))
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

//Personal.AI order the ending
