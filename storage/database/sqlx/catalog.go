package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/catalog"
)

type (
	subjectRow struct {
		ID    string      `db:"id"`
		Name  string      `db:"name"`
		Level null.String `db:"level"`
	}

	roomRow struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Capacity int    `db:"capacity"`
	}

	videoRow struct {
		ID        string    `db:"id"`
		Title     string    `db:"title"`
		URL       string    `db:"url"`
		CreatedAt time.Time `db:"created_at"`
	}

	scheduleEntryRow struct {
		ID        string      `db:"id"`
		Title     string      `db:"title"`
		CourseID  null.String `db:"course_id"`
		Room      null.String `db:"room"`
		StartsAt  time.Time   `db:"starts_at"`
		EndsAt    time.Time   `db:"ends_at"`
		CreatedAt time.Time   `db:"created_at"`
	}
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo catalogRepository) CreateSubject(ctx context.Context, s catalog.Subject, exec ...core.DBExecutor) (catalog.Subject, error) {
	s.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx,
		`INSERT INTO subjects (id, name, level) VALUES ($1, $2, $3)`,
		s.ID, s.Name, null.NewString(s.Level, s.Level != ""))
	if err != nil {
		return catalog.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo catalogRepository) QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	var rows []subjectRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, `SELECT * FROM subjects ORDER BY name ASC`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]catalog.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, catalog.Subject{ID: r.ID, Name: r.Name, Level: r.Level.String})
	}
	return subjects, nil
}

func (repo catalogRepository) DeleteSubject(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return repo.deleteByID(ctx, "subjects", id, exec)
}

func (repo catalogRepository) CreateRoom(ctx context.Context, r catalog.Room, exec ...core.DBExecutor) (catalog.Room, error) {
	r.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx,
		`INSERT INTO rooms (id, name, capacity) VALUES ($1, $2, $3)`, r.ID, r.Name, r.Capacity)
	if err != nil {
		return catalog.Room{}, errors.Wrap(err, "inserting room")
	}
	return r, nil
}

func (repo catalogRepository) QueryRooms(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Room, error) {
	var rows []roomRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, `SELECT * FROM rooms ORDER BY name ASC`); err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	rooms := make([]catalog.Room, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, catalog.Room{ID: r.ID, Name: r.Name, Capacity: r.Capacity})
	}
	return rooms, nil
}

func (repo catalogRepository) DeleteRoom(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return repo.deleteByID(ctx, "rooms", id, exec)
}

func (repo catalogRepository) CreateVideo(ctx context.Context, v catalog.Video, exec ...core.DBExecutor) (catalog.Video, error) {
	v.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx,
		`INSERT INTO videos (id, title, url, created_at) VALUES ($1, $2, $3, $4)`,
		v.ID, v.Title, v.URL, v.CreatedAt)
	if err != nil {
		return catalog.Video{}, errors.Wrap(err, "inserting video")
	}
	return v, nil
}

func (repo catalogRepository) QueryVideos(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Video, error) {
	var rows []videoRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, `SELECT * FROM videos ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying videos")
	}
	videos := make([]catalog.Video, 0, len(rows))
	for _, r := range rows {
		videos = append(videos, catalog.Video{ID: r.ID, Title: r.Title, URL: r.URL, CreatedAt: r.CreatedAt.UTC()})
	}
	return videos, nil
}

func (repo catalogRepository) DeleteVideo(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return repo.deleteByID(ctx, "videos", id, exec)
}

func (repo catalogRepository) CreateScheduleEntry(ctx context.Context, e catalog.ScheduleEntry, exec ...core.DBExecutor) (catalog.ScheduleEntry, error) {
	e.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO schedule_entries (id, title, course_id, room, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Title, null.NewString(e.CourseID, e.CourseID != ""), null.NewString(e.Room, e.Room != ""),
		e.StartsAt, e.EndsAt, e.CreatedAt)
	if err != nil {
		return catalog.ScheduleEntry{}, errors.Wrap(err, "inserting schedule entry")
	}
	return e, nil
}

func (repo catalogRepository) QueryScheduleEntries(ctx context.Context, exec ...core.DBExecutor) ([]catalog.ScheduleEntry, error) {
	var rows []scheduleEntryRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, `SELECT * FROM schedule_entries ORDER BY starts_at ASC`); err != nil {
		return nil, errors.Wrap(err, "querying schedule entries")
	}
	entries := make([]catalog.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, catalog.ScheduleEntry{
			ID:        r.ID,
			Title:     r.Title,
			CourseID:  r.CourseID.String,
			Room:      r.Room.String,
			StartsAt:  r.StartsAt.UTC(),
			EndsAt:    r.EndsAt.UTC(),
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return entries, nil
}

func (repo catalogRepository) DeleteScheduleEntry(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return repo.deleteByID(ctx, "schedule_entries", id, exec)
}

func (repo catalogRepository) deleteByID(ctx context.Context, table, id string, exec []core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", table)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
