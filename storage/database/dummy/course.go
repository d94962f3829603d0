package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Title < courses[j].Title })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	crs.UpdatedAt = time.Now().UTC()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.courses, id)
	return nil
}
