package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/deduction"
)

type markerRow struct {
	CourseID  string    `db:"course_id"`
	Date      string    `db:"date"`
	CreatedAt time.Time `db:"created_at"`
}

type deductionRepository struct {
	db *sqlx.DB
}

var _ deduction.MarkerRepository = (*deductionRepository)(nil) // interface compliance check

func NewDeductionRepository(db *sqlx.DB) *deductionRepository {
	return &deductionRepository{db: db}
}

// CreateMarkerIfAbsent claims the (course, date) key atomically; concurrent
// sweeps cannot both observe "absent".
func (repo deductionRepository) CreateMarkerIfAbsent(ctx context.Context, m deduction.Marker, exec ...core.DBExecutor) (bool, error) {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO daily_deductions (course_id, date, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, date) DO NOTHING`,
		m.CourseID, m.Date, m.CreatedAt,
	)
	if err != nil {
		return false, errors.Wrap(err, "claiming deduction marker")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "claiming deduction marker")
	}
	return n > 0, nil
}

func (repo deductionRepository) QueryMarkersByDate(ctx context.Context, date string, exec ...core.DBExecutor) ([]deduction.Marker, error) {
	var rows []markerRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT * FROM daily_deductions WHERE date = $1 ORDER BY course_id`, date)
	if err != nil {
		return nil, errors.Wrap(err, "querying deduction markers")
	}
	markers := make([]deduction.Marker, 0, len(rows))
	for _, r := range rows {
		markers = append(markers, deduction.Marker{CourseID: r.CourseID, Date: r.Date, CreatedAt: r.CreatedAt.UTC()})
	}
	return markers, nil
}
