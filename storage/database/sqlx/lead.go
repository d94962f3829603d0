package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/lead"
)

type leadRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	Phone     string      `db:"phone"`
	Source    null.String `db:"source"`
	Status    string      `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r leadRow) unrow() lead.Lead {
	return lead.Lead{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Source:    r.Source.String,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type leadRepository struct {
	db *sqlx.DB
}

var _ lead.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *sqlx.DB) *leadRepository {
	return &leadRepository{db: db}
}

func (repo leadRepository) CreateLead(ctx context.Context, ld lead.Lead, exec ...core.DBExecutor) (lead.Lead, error) {
	ld.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO leads (id, name, phone, source, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ld.ID, ld.Name, ld.Phone, null.NewString(ld.Source, ld.Source != ""), ld.Status, ld.CreatedAt,
	)
	if err != nil {
		return lead.Lead{}, errors.Wrap(err, "inserting lead")
	}
	return ld, nil
}

func (repo leadRepository) QueryLeads(ctx context.Context, limit int, exec ...core.DBExecutor) ([]lead.Lead, error) {
	query := `SELECT * FROM leads ORDER BY created_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $1`
	}
	var rows []leadRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying leads")
	}
	leads := make([]lead.Lead, 0, len(rows))
	for _, r := range rows {
		leads = append(leads, r.unrow())
	}
	return leads, nil
}

func (repo leadRepository) GetLeadByID(ctx context.Context, id string, exec ...core.DBExecutor) (lead.Lead, error) {
	var r leadRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM leads WHERE id = $1`, id); err != nil {
		return lead.Lead{}, trapNoRowsErr(err, lead.ErrNotFound, "getting lead")
	}
	return r.unrow(), nil
}

func (repo leadRepository) UpdateLead(ctx context.Context, ld lead.Lead, exec ...core.DBExecutor) (lead.Lead, error) {
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE leads SET name = $2, phone = $3, source = $4, status = $5 WHERE id = $1`,
		ld.ID, ld.Name, ld.Phone, null.NewString(ld.Source, ld.Source != ""), ld.Status,
	)
	if err != nil {
		return lead.Lead{}, errors.Wrap(err, "updating lead")
	}
	return ld, nil
}

func (repo leadRepository) DeleteLead(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lead")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lead.ErrNotFound
	}
	return nil
}
