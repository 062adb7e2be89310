package customerdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/abgdnv/storecore/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PgStore implements CustomerStore on PostgreSQL.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of CustomerStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// ApplyMigrations brings the customers schema up to date using the
// embedded migration files.
func ApplyMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}
	// golang-migrate's pgx/v5 driver registers the pgx5 scheme.
	url := strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
	url = strings.Replace(url, "postgresql://", "pgx5://", 1)
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Save inserts one customer row.
func (p *PgStore) Save(ctx context.Context, customer domain.Customer) error {
	const query = `INSERT INTO customers (name, email, dob) VALUES ($1, $2, $3)`
	if _, err := p.db.Exec(ctx, query, customer.Name, customer.Email, customer.DOB); err != nil {
		return fmt.Errorf("inserting customer %q: %w", customer.Name, err)
	}
	return nil
}

// LoadAll selects every customer row and maps each through the
// validating factory. Any null/empty name or email, or null dob,
// aborts the load with a *domain.DataIntegrityError.
func (p *PgStore) LoadAll(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT name, email, dob FROM customers ORDER BY id`
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("selecting customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var (
			name  sql.NullString
			email sql.NullString
			dob   sql.NullTime
		)
		if err := rows.Scan(&name, &email, &dob); err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		if !name.Valid || !email.Valid || !dob.Valid {
			return nil, &domain.DataIntegrityError{Err: fmt.Errorf("null column in customer row")}
		}
		customer, err := domain.NewCustomer(name.String, email.String, dob.Time)
		if err != nil {
			return nil, &domain.DataIntegrityError{Err: err}
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading customer rows: %w", err)
	}
	return customers, nil
}
