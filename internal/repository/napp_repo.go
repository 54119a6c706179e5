package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"napps-server/internal/domain"
)

// NappRepository define el contrato de persistencia para napps.
type NappRepository interface {
	Create(ctx context.Context, napp domain.Napp) error
	GetByAuthorAndName(ctx context.Context, author, name string) (domain.Napp, error)
	List(ctx context.Context, limit int) ([]domain.Napp, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.Napp, error)
	Delete(ctx context.Context, author, name string) error
}

// PgNappRepository implementa NappRepository usando pgxpool.
type PgNappRepository struct {
	pool *pgxpool.Pool
}

func NewPgNappRepository(pool *pgxpool.Pool) *PgNappRepository {
	return &PgNappRepository{pool: pool}
}

const nappColumns = `
	id, author, name, description, long_description, version,
	license, git, branch, readme, ofversions, tags, dependencies, created_at
`

func (r *PgNappRepository) Create(ctx context.Context, napp domain.Napp) error {
	const query = `
		INSERT INTO napps (` + nappColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (author, name) DO UPDATE SET
			description = EXCLUDED.description,
			long_description = EXCLUDED.long_description,
			version = EXCLUDED.version,
			license = EXCLUDED.license,
			git = EXCLUDED.git,
			branch = EXCLUDED.branch,
			readme = EXCLUDED.readme,
			ofversions = EXCLUDED.ofversions,
			tags = EXCLUDED.tags,
			dependencies = EXCLUDED.dependencies
	`
	_, err := r.pool.Exec(ctx, query,
		napp.ID,
		napp.Author,
		napp.Name,
		napp.Description,
		napp.LongDescription,
		napp.Version,
		napp.License,
		napp.Git,
		napp.Branch,
		napp.Readme,
		napp.OFVersions,
		napp.Tags,
		napp.Dependencies,
		napp.CreatedAt,
	)
	return err
}

func (r *PgNappRepository) GetByAuthorAndName(ctx context.Context, author, name string) (domain.Napp, error) {
	const query = `
		SELECT ` + nappColumns + `
		FROM napps
		WHERE author = $1 AND name = $2
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, author, name))
}

func (r *PgNappRepository) List(ctx context.Context, limit int) ([]domain.Napp, error) {
	const query = `
		SELECT ` + nappColumns + `
		FROM napps
		ORDER BY author, name
		LIMIT $1
	`
	// LIMIT NULL en Postgres significa sin tope.
	var capped any
	if limit > 0 {
		capped = limit
	}
	rows, err := r.pool.Query(ctx, query, capped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PgNappRepository) ListByAuthor(ctx context.Context, author string) ([]domain.Napp, error) {
	const query = `
		SELECT ` + nappColumns + `
		FROM napps
		WHERE author = $1
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, author)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PgNappRepository) Delete(ctx context.Context, author, name string) error {
	const query = `
		DELETE FROM napps
		WHERE author = $1 AND name = $2
	`
	_, err := r.pool.Exec(ctx, query, author, name)
	return err
}

type nappRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func (r *PgNappRepository) collect(rows nappRows) ([]domain.Napp, error) {
	var napps []domain.Napp
	for rows.Next() {
		napp, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		napps = append(napps, napp)
	}
	return napps, rows.Err()
}

func (r *PgNappRepository) scanOne(row rowScanner) (domain.Napp, error) {
	var n domain.Napp
	err := row.Scan(
		&n.ID,
		&n.Author,
		&n.Name,
		&n.Description,
		&n.LongDescription,
		&n.Version,
		&n.License,
		&n.Git,
		&n.Branch,
		&n.Readme,
		&n.OFVersions,
		&n.Tags,
		&n.Dependencies,
		&n.CreatedAt,
	)
	return n, err
}
