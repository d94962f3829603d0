package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, limit int, exec ...core.DBExecutor) ([]Student, error)
		GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Student, error)
		GetStudentByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (Student, error)
		GetStudentsByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student, exec ...core.DBExecutor) (Student, error)
		// AdjustStudentBalance adds delta (may be negative) to the student's balance.
		AdjustStudentBalance(ctx context.Context, id string, delta int64, exec ...core.DBExecutor) error
		// UnassignCourse clears the course reference of every student on the
		// course and moves them to status, returning how many were touched.
		UnassignCourse(ctx context.Context, courseID, status string, exec ...core.DBExecutor) (int, error)
		DeleteStudent(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		statsRepo stats.Repository
		tx        core.Transactor
		recorder  *activity.Recorder
	}
)

func NewService(repo Repository, statsRepo stats.Repository, tx core.Transactor, rec *activity.Recorder) *Service {
	return &Service{repo: repo, statsRepo: statsRepo, tx: tx, recorder: rec}
}

// Create enrolls a student and bumps the student counter in the same commit.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:        ns.Name,
		Phone:       ns.Phone,
		CourseID:    ns.CourseID,
		Balance:     core.ParseAmount(ns.Balance),
		Status:      ns.Status,
		PaymentPlan: ns.PaymentPlan,
		Username:    ns.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if std.Status == "" {
		std.Status = StatusActive
	}
	if ns.Password != "" {
		if err := std.SetPassword(ns.Password); err != nil {
			return Student{}, err
		}
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if std, err = svc.repo.CreateStudent(ctx, std, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Students: 1}, exec)
	})
	if err != nil {
		return Student{}, err
	}
	svc.recorder.Record(ctx, activity.KindStudent, fmt.Sprintf("student %q enrolled", std.Name), std.ID)
	return std, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Student, error) {
	ordering := []core.DBOrdering{{Field: "name", Ascending: true}}
	return svc.repo.QueryStudents(ctx, filter, ordering, 0)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Student, error) {
	return svc.repo.GetStudentByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.Name = us.Name
	std.Phone = us.Phone
	std.Status = us.Status
	std.PaymentPlan = us.PaymentPlan
	std.UpdatedAt = time.Now().UTC()
	if us.Password != "" {
		if err := std.SetPassword(us.Password); err != nil {
			return Student{}, err
		}
	}
	return svc.repo.UpdateStudent(ctx, std)
}

// AssignCourse moves the student onto a course; courseID may be empty to unassign.
func (svc *Service) AssignCourse(ctx context.Context, id, courseID string) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.CourseID = courseID
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// Delete removes the student and decrements the student counter in the same
// commit. Unlike most helpers, the error is surfaced to the caller.
func (svc *Service) Delete(ctx context.Context, id string) error {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteStudent(ctx, id, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Students: -1}, exec)
	})
	if err != nil {
		return err
	}
	svc.recorder.Record(ctx, activity.KindStudent, fmt.Sprintf("student %q removed", std.Name), id)
	return nil
}
