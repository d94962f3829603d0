package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/student"
)

type studentRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Phone        string      `db:"phone"`
	CourseID     null.String `db:"course_id"`
	Balance      int64       `db:"balance"`
	Status       string      `db:"status"`
	PaymentPlan  null.String `db:"payment_plan"`
	Username     null.String `db:"username"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r studentRow) unrow() student.Student {
	return student.Student{
		ID:           r.ID,
		Name:         r.Name,
		Phone:        r.Phone,
		CourseID:     r.CourseID.String,
		Balance:      r.Balance,
		Status:       r.Status,
		PaymentPlan:  r.PaymentPlan.String,
		Username:     r.Username.String,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO students (id, name, phone, course_id, balance, status, payment_plan, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		std.ID, std.Name, std.Phone, null.NewString(std.CourseID, std.CourseID != ""), std.Balance, std.Status,
		null.NewString(std.PaymentPlan, std.PaymentPlan != ""), null.NewString(std.Username, std.Username != ""),
		null.BytesFrom(std.PasswordHash), std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, limit int, exec ...core.DBExecutor) ([]student.Student, error) {
	query := `SELECT * FROM students`
	var args []interface{}
	var where []string

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			where = append(where, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args)))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			where = append(where, fmt.Sprintf("status = $%d", len(args)))
		}
		if filter.CourseID != "" {
			args = append(args, filter.CourseID)
			where = append(where, fmt.Sprintf("course_id = $%d", len(args)))
		}
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += orderBy(ordering)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []studentRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unrow())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	var r studentRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return r.unrow(), nil
}

func (repo studentRepository) GetStudentByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (student.Student, error) {
	var r studentRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT * FROM students WHERE username = $1`, username); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return r.unrow(), nil
}

func (repo studentRepository) GetStudentsByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]student.Student, error) {
	var rows []studentRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT * FROM students WHERE course_id = $1 ORDER BY name ASC`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying course students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unrow())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		UPDATE students
		SET name = $2, phone = $3, course_id = $4, balance = $5, status = $6,
		    payment_plan = $7, password_hash = $8, updated_at = $9
		WHERE id = $1`,
		std.ID, std.Name, std.Phone, null.NewString(std.CourseID, std.CourseID != ""), std.Balance, std.Status,
		null.NewString(std.PaymentPlan, std.PaymentPlan != ""), null.BytesFrom(std.PasswordHash), std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (repo studentRepository) AdjustStudentBalance(ctx context.Context, id string, delta int64, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx,
		`UPDATE students SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return errors.Wrap(err, "adjusting student balance")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo studentRepository) UnassignCourse(ctx context.Context, courseID, status string, exec ...core.DBExecutor) (int, error) {
	res, err := getExec(repo.db, exec).ExecContext(ctx,
		`UPDATE students SET course_id = NULL, status = $2, updated_at = now() WHERE course_id = $1`, courseID, status)
	if err != nil {
		return 0, errors.Wrap(err, "unassigning course students")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "unassigning course students")
	}
	return int(n), nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

// trapNoRowsErr maps psql "no rows" err to the domain not-found error.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
