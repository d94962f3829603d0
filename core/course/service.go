package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		QueryCourses(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Course, error)
		GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (Course, error)
		UpdateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		students  student.Repository
		statsRepo stats.Repository
		tx        core.Transactor
		recorder  *activity.Recorder
	}
)

func NewService(repo Repository, students student.Repository, statsRepo stats.Repository, tx core.Transactor, rec *activity.Recorder) *Service {
	return &Service{repo: repo, students: students, statsRepo: statsRepo, tx: tx, recorder: rec}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:        nc.Title,
		Days:         ParseWeekdays(nc.Days),
		Daily:        nc.Daily,
		StartTime:    nc.StartTime,
		MonthlyPrice: core.ParseAmount(nc.MonthlyPrice),
		Room:         nc.Room,
		TeacherID:    nc.TeacherID,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if crs, err = svc.repo.CreateCourse(ctx, crs, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Courses: 1}, exec)
	})
	if err != nil {
		return Course{}, err
	}
	svc.recorder.Record(ctx, activity.KindCourse, fmt.Sprintf("course %q opened", crs.Title), crs.ID)
	return crs, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, []core.DBOrdering{{Field: "title", Ascending: true}})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Days != "" {
		crs.Days = ParseWeekdays(uc.Days)
	}
	if uc.Daily != nil {
		crs.Daily = *uc.Daily
	}
	if uc.StartTime != "" {
		crs.StartTime = uc.StartTime
	}
	if uc.MonthlyPrice != "" {
		crs.MonthlyPrice = core.ParseAmount(uc.MonthlyPrice)
	}
	if uc.Room != "" {
		crs.Room = uc.Room
	}
	if uc.TeacherID != "" {
		crs.TeacherID = uc.TeacherID
	}
	if uc.Status != "" {
		crs.Status = uc.Status
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

// Delete removes the course and, in the same commit, unassigns every student
// still referencing it (status moves to waiting) and decrements the course
// counter. No student may reference the course afterwards.
func (svc *Service) Delete(ctx context.Context, id string) error {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	var unassigned int
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if unassigned, err = svc.students.UnassignCourse(ctx, id, student.StatusWaiting, exec); err != nil {
			return err
		}
		if err = svc.repo.DeleteCourse(ctx, id, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Courses: -1}, exec)
	})
	if err != nil {
		return err
	}
	svc.recorder.Record(ctx, activity.KindCourse,
		fmt.Sprintf("course %q closed, %d student(s) moved to waiting", crs.Title, unassigned), id)
	return nil
}
