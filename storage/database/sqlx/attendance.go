package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/attendance"
)

type attendanceRow struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	Date      string    `db:"date"`
	Statuses  []byte    `db:"statuses"`
	CreatedAt time.Time `db:"created_at"`
}

func (r attendanceRow) unrow() (attendance.Record, error) {
	statuses := make(map[string]string)
	if len(r.Statuses) > 0 {
		if err := json.Unmarshal(r.Statuses, &statuses); err != nil {
			return attendance.Record{}, errors.Wrap(err, "decoding attendance statuses")
		}
	}
	return attendance.Record{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Date:      r.Date,
		Statuses:  statuses,
		CreatedAt: r.CreatedAt.UTC(),
	}, nil
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	statuses, err := json.Marshal(rec.Statuses)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "encoding attendance statuses")
	}
	_, err = getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO attendance (id, course_id, date, statuses, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.CourseID, rec.Date, statuses, rec.CreatedAt,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance`
	var args []interface{}
	if after != nil {
		args = append(args, after.CreatedAt, after.ID)
		query += ` WHERE (created_at, id) < ($1, $2)`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		if after != nil {
			query += ` LIMIT $3`
		} else {
			query += ` LIMIT $1`
		}
	}

	var rows []attendanceRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := r.unrow()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo attendanceRepository) GetRecordByID(ctx context.Context, id string, exec ...core.DBExecutor) (attendance.Record, error) {
	var r attendanceRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM attendance WHERE id = $1`, id); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance record")
	}
	return r.unrow()
}

func (repo attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	statuses, err := json.Marshal(rec.Statuses)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "encoding attendance statuses")
	}
	_, err = getExec(repo.db, exec).ExecContext(ctx,
		`UPDATE attendance SET statuses = $2 WHERE id = $1`, rec.ID, statuses)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) DeleteRecord(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.ErrNotFound
	}
	return nil
}
