package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/course"
)

type courseRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Days         int16       `db:"days"`
	Daily        bool        `db:"daily"`
	StartTime    null.String `db:"start_time"`
	MonthlyPrice int64       `db:"monthly_price"`
	Room         null.String `db:"room"`
	TeacherID    null.String `db:"teacher_id"`
	Status       string      `db:"status"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r courseRow) unrow() course.Course {
	return course.Course{
		ID:           r.ID,
		Title:        r.Title,
		Days:         course.Weekdays(r.Days),
		Daily:        r.Daily,
		StartTime:    r.StartTime.String,
		MonthlyPrice: r.MonthlyPrice,
		Room:         r.Room.String,
		TeacherID:    r.TeacherID.String,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO courses (id, title, days, daily, start_time, monthly_price, room, teacher_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		crs.ID, crs.Title, int16(crs.Days), crs.Daily, null.NewString(crs.StartTime, crs.StartTime != ""),
		crs.MonthlyPrice, null.NewString(crs.Room, crs.Room != ""), null.NewString(crs.TeacherID, crs.TeacherID != ""),
		crs.Status, crs.CreatedAt, crs.UpdatedAt,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	var rows []courseRow
	query := `SELECT * FROM courses` + orderBy(ordering)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.unrow())
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	var r courseRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM courses WHERE id = $1`, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return r.unrow(), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE courses
		SET title = $2, days = $3, daily = $4, start_time = $5, monthly_price = $6,
		    room = $7, teacher_id = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		crs.ID, crs.Title, int16(crs.Days), crs.Daily, null.NewString(crs.StartTime, crs.StartTime != ""),
		crs.MonthlyPrice, null.NewString(crs.Room, crs.Room != ""), null.NewString(crs.TeacherID, crs.TeacherID != ""),
		crs.Status, crs.UpdatedAt,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return crs, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.ErrNotFound
	}
	return nil
}
