package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/davronbek/proteach/core"
)

var ErrNotFound = errors.New("catalog entry not found")

type (
	Repository interface {
		CreateSubject(ctx context.Context, s Subject, exec ...core.DBExecutor) (Subject, error)
		QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]Subject, error)
		DeleteSubject(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateRoom(ctx context.Context, r Room, exec ...core.DBExecutor) (Room, error)
		QueryRooms(ctx context.Context, exec ...core.DBExecutor) ([]Room, error)
		DeleteRoom(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateVideo(ctx context.Context, v Video, exec ...core.DBExecutor) (Video, error)
		QueryVideos(ctx context.Context, exec ...core.DBExecutor) ([]Video, error)
		DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateScheduleEntry(ctx context.Context, e ScheduleEntry, exec ...core.DBExecutor) (ScheduleEntry, error)
		QueryScheduleEntries(ctx context.Context, exec ...core.DBExecutor) ([]ScheduleEntry, error)
		DeleteScheduleEntry(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	return svc.repo.CreateSubject(ctx, Subject{Name: ns.Name, Level: ns.Level})
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) DeleteSubject(ctx context.Context, id string) error {
	return svc.repo.DeleteSubject(ctx, id)
}

func (svc *Service) CreateRoom(ctx context.Context, nr NewRoom) (Room, error) {
	return svc.repo.CreateRoom(ctx, Room{Name: nr.Name, Capacity: nr.Capacity})
}

func (svc *Service) QueryRooms(ctx context.Context) ([]Room, error) {
	return svc.repo.QueryRooms(ctx)
}

func (svc *Service) DeleteRoom(ctx context.Context, id string) error {
	return svc.repo.DeleteRoom(ctx, id)
}

func (svc *Service) CreateVideo(ctx context.Context, nv NewVideo) (Video, error) {
	return svc.repo.CreateVideo(ctx, Video{Title: nv.Title, URL: nv.URL, CreatedAt: time.Now().UTC()})
}

func (svc *Service) QueryVideos(ctx context.Context) ([]Video, error) {
	return svc.repo.QueryVideos(ctx)
}

func (svc *Service) DeleteVideo(ctx context.Context, id string) error {
	return svc.repo.DeleteVideo(ctx, id)
}

func (svc *Service) CreateScheduleEntry(ctx context.Context, ne NewScheduleEntry) (ScheduleEntry, error) {
	e := ScheduleEntry{
		Title:     ne.Title,
		CourseID:  ne.CourseID,
		Room:      ne.Room,
		StartsAt:  ne.StartsAt.UTC(),
		EndsAt:    ne.EndsAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateScheduleEntry(ctx, e)
}

func (svc *Service) QueryScheduleEntries(ctx context.Context) ([]ScheduleEntry, error) {
	return svc.repo.QueryScheduleEntries(ctx)
}

func (svc *Service) DeleteScheduleEntry(ctx context.Context, id string) error {
	return svc.repo.DeleteScheduleEntry(ctx, id)
}
