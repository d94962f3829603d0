package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering, limit int, exec ...core.DBExecutor) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if filter != nil {
			if s := strings.ToLower(filter.Search); s != "" &&
				!strings.Contains(strings.ToLower(std.Name), s) && !strings.Contains(std.Phone, s) {
				continue
			}
			if filter.Status != "" && std.Status != filter.Status {
				continue
			}
			if filter.CourseID != "" && std.CourseID != filter.CourseID {
				continue
			}
		}
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	if limit > 0 && len(students) > limit {
		students = students[:limit]
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUsername(ctx context.Context, username string, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Username == username {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentsByCourse(ctx context.Context, courseID string, exec ...core.DBExecutor) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var students []student.Student
	for _, std := range repo.db.students {
		if std.CourseID == courseID {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student, exec ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.UpdatedAt = time.Now().UTC()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) AdjustStudentBalance(ctx context.Context, id string, delta int64, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.students[id]
	if !ok {
		return student.ErrNotFound
	}
	std.Balance += delta
	std.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *studentRepository) UnassignCourse(ctx context.Context, courseID, status string, exec ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for _, std := range repo.db.students {
		if std.CourseID == courseID {
			std.CourseID = ""
			std.Status = status
			std.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	return nil
}
