package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = uuid.New().String()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, tch := range repo.db.teachers {
		teachers = append(teachers, *tch)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string, exec ...core.DBExecutor) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	tch.UpdatedAt = time.Now().UTC()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}
