package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

var sqlOpen = sql.Open

const (
	defaultMaxOpenConns     = 25
	defaultMaxIdleConns     = 10
	defaultConnMaxLifetime  = 30 * time.Minute
	defaultConnMaxIdleTime  = 5 * time.Minute
	defaultStatementTimeout = 30 * time.Second
	defaultLockTimeout      = 10 * time.Second
	connectTimeout          = 5 * time.Second
	poolPressure            = 0.8
)

// PostgresConfig holds the database configuration.
type PostgresConfig struct {
	Host             string        `mapstructure:"host" yaml:"host"`
	Port             int           `mapstructure:"port" yaml:"port"`
	Database         string        `mapstructure:"database" yaml:"database"`
	Username         string        `mapstructure:"username" yaml:"username"`
	Password         string        `mapstructure:"password" yaml:"password"`
	SSLMode          string        `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" yaml:"statement_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`
}

// Connection is the pool holding accounts and the patent holder registry.
type Connection struct {
	db     *sql.DB
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens the pool and pings it once. A failed ping closes the
// pool and returns ErrCodeDatabaseError.
func NewConnection(cfg PostgresConfig, log logging.Logger) (*Connection, error) {
	db, err := sqlOpen("postgres", buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}
	configurePool(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed").
			WithDetail(fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database))
	}

	log.Info("Connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
	)
	return &Connection{db: db, logger: log}, nil
}

func configurePool(db *sql.DB, cfg PostgresConfig) {
	db.SetMaxOpenConns(positive(cfg.MaxOpenConns, defaultMaxOpenConns))
	db.SetMaxIdleConns(positive(cfg.MaxIdleConns, defaultMaxIdleConns))
	db.SetConnMaxLifetime(positive(cfg.ConnMaxLifetime, defaultConnMaxLifetime))
	db.SetConnMaxIdleTime(positive(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime))
}

func positive[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// DB exposes the pool to the repositories.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// NewConnectionWithDB creates a Connection with an existing sql.DB (for testing).
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	return &Connection{
		db:     db,
		logger: log,
	}
}

// schemaStatements create the tables the service needs. Every statement is
// idempotent; there is no versioned migration history.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          VARCHAR(200) NOT NULL,
		username      VARCHAR(150) NOT NULL,
		email         VARCHAR(254) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		last_login_at TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email) WHERE email <> ''`,
	`CREATE TABLE IF NOT EXISTS patent_holders (
		reference_id          VARCHAR(20) PRIMARY KEY,
		grant_doc_number      VARCHAR(20) NOT NULL,
		record_date           DATE NOT NULL,
		patent_holder_id      VARCHAR(20) NOT NULL,
		patent_holder         VARCHAR(200) NOT NULL,
		patent_seller         VARCHAR(200) NOT NULL DEFAULT '',
		patent_seller_id      VARCHAR(20) NOT NULL DEFAULT '',
		litigation            SMALLINT NOT NULL CHECK (litigation BETWEEN 1 AND 10),
		tech_field            VARCHAR(200) NOT NULL,
		filing_year           DATE NOT NULL,
		type_patent_holder    VARCHAR(200) NOT NULL,
		patent_quality        SMALLINT NOT NULL CHECK (patent_quality BETWEEN 1 AND 10),
		patent_value          SMALLINT NOT NULL CHECK (patent_value BETWEEN 1 AND 10),
		litigation_risk       SMALLINT NOT NULL CHECK (litigation_risk BETWEEN 1 AND 10),
		country_patent_holder VARCHAR(200) NOT NULL,
		country_patent_seller VARCHAR(200) NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS patent_holders_holder_idx ON patent_holders (patent_holder)`,
}

// EnsureSchema creates missing tables and indexes.
func (c *Connection) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to ensure schema")
		}
	}
	c.logger.Info("PostgreSQL schema ensured", logging.Int("statements", len(schemaStatements)))
	return nil
}

// HealthCheck pings the pool and warns when most open connections are busy.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	if st := c.db.Stats(); st.OpenConnections > 0 {
		if usage := float64(st.InUse) / float64(st.OpenConnections); usage > poolPressure {
			c.logger.Warn("PostgreSQL pool under pressure",
				logging.Int("in_use", st.InUse),
				logging.Int("open", st.OpenConnections),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

func (c *Connection) Stats() sql.DBStats {
	return c.db.Stats()
}

// Close releases the pool. Later calls are no-ops.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		if err = c.db.Close(); err != nil {
			c.logger.Error("Failed to close PostgreSQL pool", logging.Err(err))
			return
		}
		c.logger.Info("PostgreSQL pool closed")
	})
	return err
}

// buildDSN renders cfg as a postgres:// URL. Timeouts are passed as
// server-side settings in milliseconds.
func buildDSN(cfg PostgresConfig) string {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	if cfg.SSLMode == "" {
		q.Set("sslmode", "disable")
	}
	q.Set("statement_timeout", millis(positive(cfg.StatementTimeout, defaultStatementTimeout)))
	q.Set("lock_timeout", millis(positive(cfg.LockTimeout, defaultLockTimeout)))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

//Personal.AI order the ending
