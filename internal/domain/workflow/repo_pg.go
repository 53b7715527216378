package workflow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/miniclinic/miniclinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) List(ctx context.Context) ([]Step, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name FROM workflow_steps ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var steps []Step
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (r *repoPG) ReplaceAll(ctx context.Context, steps []Step) error {
	c := r.conn(ctx)

	// The exclusive lock serializes concurrent replacements for the rest
	// of the transaction; the last commit wins wholesale.
	if _, err := c.Exec(ctx, `LOCK TABLE workflow_steps IN EXCLUSIVE MODE`); err != nil {
		return err
	}
	if _, err := c.Exec(ctx, `DELETE FROM workflow_steps`); err != nil {
		return err
	}
	for i, s := range steps {
		if _, err := c.Exec(ctx,
			`INSERT INTO workflow_steps (position, id, name) VALUES ($1,$2,$3)`,
			i+1, s.ID, s.Name); err != nil {
			return err
		}
	}
	return nil
}
