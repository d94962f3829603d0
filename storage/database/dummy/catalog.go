package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateSubject(ctx context.Context, s catalog.Subject, exec ...core.DBExecutor) (catalog.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.New().String()
	repo.db.subjects[s.ID] = &s
	return s, nil
}

func (repo *catalogRepository) QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]catalog.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *catalogRepository) DeleteSubject(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.subjects, id)
	return nil
}

func (repo *catalogRepository) CreateRoom(ctx context.Context, r catalog.Room, exec ...core.DBExecutor) (catalog.Room, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	repo.db.rooms[r.ID] = &r
	return r, nil
}

func (repo *catalogRepository) QueryRooms(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Room, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rooms := make([]catalog.Room, 0, len(repo.db.rooms))
	for _, r := range repo.db.rooms {
		rooms = append(rooms, *r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (repo *catalogRepository) DeleteRoom(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rooms[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.rooms, id)
	return nil
}

func (repo *catalogRepository) CreateVideo(ctx context.Context, v catalog.Video, exec ...core.DBExecutor) (catalog.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	v.ID = uuid.New().String()
	repo.db.videos[v.ID] = &v
	return v, nil
}

func (repo *catalogRepository) QueryVideos(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	videos := make([]catalog.Video, 0, len(repo.db.videos))
	for _, v := range repo.db.videos {
		videos = append(videos, *v)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	return videos, nil
}

func (repo *catalogRepository) DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.videos[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.videos, id)
	return nil
}

func (repo *catalogRepository) CreateScheduleEntry(ctx context.Context, e catalog.ScheduleEntry, exec ...core.DBExecutor) (catalog.ScheduleEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = uuid.New().String()
	repo.db.schedule[e.ID] = &e
	return e, nil
}

func (repo *catalogRepository) QueryScheduleEntries(ctx context.Context, exec ...core.DBExecutor) ([]catalog.ScheduleEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]catalog.ScheduleEntry, 0, len(repo.db.schedule))
	for _, e := range repo.db.schedule {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartsAt.Before(entries[j].StartsAt) })
	return entries, nil
}

func (repo *catalogRepository) DeleteScheduleEntry(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.schedule[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.schedule, id)
	return nil
}
