package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/teacher"
)

type teacherRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Subject    string         `db:"subject"`
	Phone      null.String    `db:"phone"`
	CourseIDs  pq.StringArray `db:"course_ids"`
	SalaryType string         `db:"salary_type"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r teacherRow) unrow() teacher.Teacher {
	return teacher.Teacher{
		ID:         r.ID,
		Name:       r.Name,
		Subject:    r.Subject,
		Phone:      r.Phone.String,
		CourseIDs:  []string(r.CourseIDs),
		SalaryType: r.SalaryType,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	tch.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO teachers (id, name, subject, phone, course_ids, salary_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tch.ID, tch.Name, tch.Subject, null.NewString(tch.Phone, tch.Phone != ""),
		pq.StringArray(tch.CourseIDs), tch.SalaryType, tch.CreatedAt, tch.UpdatedAt,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]teacher.Teacher, error) {
	var rows []teacherRow
	query := `SELECT * FROM teachers` + orderBy(ordering)
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.unrow())
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id string, exec ...core.DBExecutor) (teacher.Teacher, error) {
	var r teacherRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM teachers WHERE id = $1`, id); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "getting teacher")
	}
	return r.unrow(), nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE teachers
		SET name = $2, subject = $3, phone = $4, course_ids = $5, salary_type = $6, updated_at = $7
		WHERE id = $1`,
		tch.ID, tch.Name, tch.Subject, null.NewString(tch.Phone, tch.Phone != ""),
		pq.StringArray(tch.CourseIDs), tch.SalaryType, tch.UpdatedAt,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tch, nil
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
