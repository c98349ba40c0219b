package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"reqforge/internal/requirement/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
	"reqforge/pkg/platform/tx"
)

// Schema creates the requirements table. Applied at startup; every statement
// is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS requirements (
    project_id       UUID        NOT NULL,
    id_prefix        TEXT        NOT NULL,
    id_number        INTEGER     NOT NULL,
    id_version       TEXT        NOT NULL DEFAULT '',
    title            TEXT        NOT NULL,
    description      TEXT        NOT NULL DEFAULT '',
    priority_level   TEXT        NOT NULL DEFAULT '',
    priority_reason  TEXT        NOT NULL DEFAULT '',
    complexity_scale TEXT        NOT NULL DEFAULT '',
    complexity_note  TEXT        NOT NULL DEFAULT '',
    business_value   INTEGER     NOT NULL DEFAULT 0,
    story_points     DOUBLE PRECISION NOT NULL DEFAULT 0,
    estimation_method TEXT       NOT NULL DEFAULT '',
    domain_entity    TEXT        NOT NULL DEFAULT '',
    domain_entities  TEXT[]      NOT NULL DEFAULT '{}',
    aggregate_root   TEXT        NOT NULL DEFAULT '',
    bounded_context  TEXT        NOT NULL DEFAULT '',
    depends_on       TEXT[]      NOT NULL DEFAULT '{}',
    status           TEXT        NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (project_id, id_prefix, id_number, id_version)
);
CREATE INDEX IF NOT EXISTS requirements_project_idx ON requirements (project_id);
`

const requirementColumns = `project_id, id_prefix, id_number, id_version, title, description,
    priority_level, priority_reason, complexity_scale, complexity_note,
    business_value, story_points, estimation_method,
    domain_entity, domain_entities, aggregate_root, bounded_context, depends_on,
    status, created_at, updated_at`

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists requirements in PostgreSQL. It shares the database
// handle with the event outbox so a caller-provided transaction covers both.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed requirement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate requirements schema: %w", err)
	}
	return nil
}

// q resolves the executor: a transaction carried in ctx, or the pool.
func (s *PostgresStore) q(ctx context.Context) querier {
	if transaction, ok := tx.From(ctx); ok {
		return transaction
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, req *models.Requirement) error {
	if req == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "requirement is required")
	}
	_, err := s.q(ctx).ExecContext(ctx, `
        INSERT INTO requirements (`+requirementColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        ON CONFLICT (project_id, id_prefix, id_number, id_version) DO UPDATE SET
            title = EXCLUDED.title,
            description = EXCLUDED.description,
            priority_level = EXCLUDED.priority_level,
            priority_reason = EXCLUDED.priority_reason,
            complexity_scale = EXCLUDED.complexity_scale,
            complexity_note = EXCLUDED.complexity_note,
            business_value = EXCLUDED.business_value,
            story_points = EXCLUDED.story_points,
            estimation_method = EXCLUDED.estimation_method,
            domain_entity = EXCLUDED.domain_entity,
            domain_entities = EXCLUDED.domain_entities,
            aggregate_root = EXCLUDED.aggregate_root,
            bounded_context = EXCLUDED.bounded_context,
            depends_on = EXCLUDED.depends_on,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at`,
		uuid.UUID(req.ProjectID), req.ID.Prefix, req.ID.Number, req.ID.Version,
		req.Title, req.Description,
		string(req.Priority.Level), req.Priority.Reason,
		string(req.Complexity.Scale), req.Complexity.Explanation,
		req.BusinessValue.Score, req.StoryPoints.Points, req.StoryPoints.EstimationMethod,
		req.DomainEntity, pq.Array(req.DomainEntities), req.AggregateRoot, req.BoundedContext, pq.Array(req.DependsOn),
		string(req.Status), req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save requirement: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) (*models.Requirement, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
        SELECT `+requirementColumns+`
        FROM requirements
        WHERE project_id = $1 AND id_prefix = $2 AND id_number = $3 AND id_version = $4`,
		uuid.UUID(projectID), id.Prefix, id.Number, id.Version,
	)
	req, err := scanRequirement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "requirement %s not found", id.FullIdentifier())
		}
		return nil, fmt.Errorf("find requirement by id: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID domain.ProjectID) ([]*models.Requirement, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
        SELECT `+requirementColumns+`
        FROM requirements
        WHERE project_id = $1
        ORDER BY id_prefix, id_number, id_version`,
		uuid.UUID(projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	var out []*models.Requirement
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MaxNumber(ctx context.Context, projectID domain.ProjectID, prefix string) (int, error) {
	var max int
	err := s.q(ctx).QueryRowContext(ctx, `
        SELECT COALESCE(MAX(id_number), 0)
        FROM requirements
        WHERE project_id = $1 AND id_prefix = $2`,
		uuid.UUID(projectID), prefix,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max requirement number: %w", err)
	}
	return max, nil
}

func (s *PostgresStore) Delete(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) error {
	result, err := s.q(ctx).ExecContext(ctx, `
        DELETE FROM requirements
        WHERE project_id = $1 AND id_prefix = $2 AND id_number = $3 AND id_version = $4`,
		uuid.UUID(projectID), id.Prefix, id.Number, id.Version,
	)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "requirement %s not found", id.FullIdentifier())
	}
	return nil
}

func scanRequirement(row interface{ Scan(dest ...any) error }) (*models.Requirement, error) {
	var (
		req                            models.Requirement
		projectID                      uuid.UUID
		level, complexityScale, status string
		entities, dependsOn            []string
	)
	err := row.Scan(
		&projectID, &req.ID.Prefix, &req.ID.Number, &req.ID.Version,
		&req.Title, &req.Description,
		&level, &req.Priority.Reason,
		&complexityScale, &req.Complexity.Explanation,
		&req.BusinessValue.Score, &req.StoryPoints.Points, &req.StoryPoints.EstimationMethod,
		&req.DomainEntity, pq.Array(&entities), &req.AggregateRoot, &req.BoundedContext, pq.Array(&dependsOn),
		&status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.ProjectID = domain.ProjectID(projectID)
	req.Priority.Level = domain.PriorityLevel(level)
	req.Complexity.Scale = domain.ComplexityScale(complexityScale)
	req.Status = models.Status(status)
	req.DomainEntities = entities
	req.DependsOn = dependsOn
	return &req, nil
}
