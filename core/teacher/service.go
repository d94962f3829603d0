package teacher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
)

var ErrNotFound = errors.New("teacher not found")

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tch Teacher, exec ...core.DBExecutor) (Teacher, error)
		QueryTeachers(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string, exec ...core.DBExecutor) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher, exec ...core.DBExecutor) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string, exec ...core.DBExecutor) error
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

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		Name:       nt.Name,
		Subject:    nt.Subject,
		Phone:      nt.Phone,
		CourseIDs:  nt.CourseIDs,
		SalaryType: nt.SalaryType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if tch.SalaryType == "" {
		tch.SalaryType = SalaryFixed
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if tch, err = svc.repo.CreateTeacher(ctx, tch, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Teachers: 1}, exec)
	})
	if err != nil {
		return Teacher{}, err
	}
	svc.recorder.Record(ctx, activity.KindTeacher, fmt.Sprintf("teacher %q registered", tch.Name), tch.ID)
	return tch, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx, []core.DBOrdering{{Field: "name", Ascending: true}})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	tch.Name = ut.Name
	tch.Subject = ut.Subject
	tch.Phone = ut.Phone
	tch.CourseIDs = ut.CourseIDs
	tch.SalaryType = ut.SalaryType
	tch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteTeacher(ctx, id, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Teachers: -1}, exec)
	})
	if err != nil {
		return err
	}
	svc.recorder.Record(ctx, activity.KindTeacher, fmt.Sprintf("teacher %q removed", tch.Name), id)
	return nil
}
