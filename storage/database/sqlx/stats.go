package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/stats"
)

type statsRow struct {
	ID            int16     `db:"id"`
	TotalStudents int       `db:"total_students"`
	TotalTeachers int       `db:"total_teachers"`
	TotalCourses  int       `db:"total_courses"`
	ActiveLeads   int       `db:"active_leads"`
	TotalRevenue  int64     `db:"total_revenue"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type statsRepository struct {
	db *sqlx.DB
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(db *sqlx.DB) *statsRepository {
	return &statsRepository{db: db}
}

func (repo statsRepository) GetStats(ctx context.Context, exec ...core.DBExecutor) (stats.Stats, error) {
	var r statsRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM stats WHERE id = 1`); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			// the singleton row is seeded by migration; its absence means the
			// schema is broken and the process cannot do useful work
			return stats.Stats{}, core.NewShutdownError("stats row missing")
		}
		return stats.Stats{}, errors.Wrap(err, "getting stats")
	}
	return stats.Stats{
		TotalStudents: r.TotalStudents,
		TotalTeachers: r.TotalTeachers,
		TotalCourses:  r.TotalCourses,
		ActiveLeads:   r.ActiveLeads,
		TotalRevenue:  r.TotalRevenue,
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}

// ApplyDelta adjusts the counters with relative increments only, so that
// concurrent adjustments from independent commits compose.
func (repo statsRepository) ApplyDelta(ctx context.Context, d stats.Delta, exec ...core.DBExecutor) error {
	if d.IsZero() {
		return nil
	}
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE stats
		SET total_students = total_students + $1,
		    total_teachers = total_teachers + $2,
		    total_courses  = total_courses + $3,
		    active_leads   = active_leads + $4,
		    total_revenue  = total_revenue + $5,
		    updated_at     = now()
		WHERE id = 1`,
		d.Students, d.Teachers, d.Courses, d.Leads, d.Revenue,
	)
	return errors.Wrap(err, "applying stats delta")
}
