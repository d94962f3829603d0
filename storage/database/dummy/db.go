// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"context"
	"sync"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/catalog"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	"github.com/davronbek/proteach/core/teacher"
	"github.com/davronbek/proteach/core/user"
)

// DB is the shared in-memory store. A single lock guards all tables so that
// multi-table operations observe a consistent state.
type DB struct {
	sync.RWMutex

	students   map[string]*student.Student
	teachers   map[string]*teacher.Teacher
	courses    map[string]*course.Course
	finance    map[string]*finance.Transaction
	leads      map[string]*lead.Lead
	attendance map[string]*attendance.Record
	activities map[string]*activity.Activity
	subjects   map[string]*catalog.Subject
	rooms      map[string]*catalog.Room
	videos     map[string]*catalog.Video
	schedule   map[string]*catalog.ScheduleEntry
	users      map[string]*user.User
	markers    map[string]deduction.Marker // keyed "courseID|date"
	stats      stats.Stats
}

func Open() (*DB, error) {
	db := &DB{
		students:   make(map[string]*student.Student),
		teachers:   make(map[string]*teacher.Teacher),
		courses:    make(map[string]*course.Course),
		finance:    make(map[string]*finance.Transaction),
		leads:      make(map[string]*lead.Lead),
		attendance: make(map[string]*attendance.Record),
		activities: make(map[string]*activity.Activity),
		subjects:   make(map[string]*catalog.Subject),
		rooms:      make(map[string]*catalog.Room),
		videos:     make(map[string]*catalog.Video),
		schedule:   make(map[string]*catalog.ScheduleEntry),
		users:      make(map[string]*user.User),
		markers:    make(map[string]deduction.Marker),
	}
	return db, nil
}

// Transactor runs fn against the store directly (no executor) and restores
// the pre-transaction state when fn fails, mimicking a rollback.
type Transactor struct {
	db *DB
}

var _ core.Transactor = Transactor{}

func NewTransactor(db *DB) Transactor {
	return Transactor{db: db}
}

func (t Transactor) InTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	snap := t.db.snapshot()
	if err := fn(nil); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

// dbState is a point-in-time copy of every table. Records are copied by
// value because some repos mutate stored records in place.
type dbState struct {
	students   map[string]*student.Student
	teachers   map[string]*teacher.Teacher
	courses    map[string]*course.Course
	finance    map[string]*finance.Transaction
	leads      map[string]*lead.Lead
	attendance map[string]*attendance.Record
	activities map[string]*activity.Activity
	subjects   map[string]*catalog.Subject
	rooms      map[string]*catalog.Room
	videos     map[string]*catalog.Video
	schedule   map[string]*catalog.ScheduleEntry
	users      map[string]*user.User
	markers    map[string]deduction.Marker
	stats      stats.Stats
}

func (db *DB) snapshot() dbState {
	db.RLock()
	defer db.RUnlock()

	snap := dbState{
		students:   make(map[string]*student.Student, len(db.students)),
		teachers:   make(map[string]*teacher.Teacher, len(db.teachers)),
		courses:    make(map[string]*course.Course, len(db.courses)),
		finance:    make(map[string]*finance.Transaction, len(db.finance)),
		leads:      make(map[string]*lead.Lead, len(db.leads)),
		attendance: make(map[string]*attendance.Record, len(db.attendance)),
		activities: make(map[string]*activity.Activity, len(db.activities)),
		subjects:   make(map[string]*catalog.Subject, len(db.subjects)),
		rooms:      make(map[string]*catalog.Room, len(db.rooms)),
		videos:     make(map[string]*catalog.Video, len(db.videos)),
		schedule:   make(map[string]*catalog.ScheduleEntry, len(db.schedule)),
		users:      make(map[string]*user.User, len(db.users)),
		markers:    make(map[string]deduction.Marker, len(db.markers)),
		stats:      db.stats,
	}
	for k, v := range db.students {
		cp := *v
		snap.students[k] = &cp
	}
	for k, v := range db.teachers {
		cp := *v
		snap.teachers[k] = &cp
	}
	for k, v := range db.courses {
		cp := *v
		snap.courses[k] = &cp
	}
	for k, v := range db.finance {
		cp := *v
		snap.finance[k] = &cp
	}
	for k, v := range db.leads {
		cp := *v
		snap.leads[k] = &cp
	}
	for k, v := range db.attendance {
		cp := *v
		snap.attendance[k] = &cp
	}
	for k, v := range db.activities {
		cp := *v
		snap.activities[k] = &cp
	}
	for k, v := range db.subjects {
		cp := *v
		snap.subjects[k] = &cp
	}
	for k, v := range db.rooms {
		cp := *v
		snap.rooms[k] = &cp
	}
	for k, v := range db.videos {
		cp := *v
		snap.videos[k] = &cp
	}
	for k, v := range db.schedule {
		cp := *v
		snap.schedule[k] = &cp
	}
	for k, v := range db.users {
		cp := *v
		snap.users[k] = &cp
	}
	for k, v := range db.markers {
		snap.markers[k] = v
	}
	return snap
}

func (db *DB) restore(snap dbState) {
	db.Lock()
	defer db.Unlock()

	db.students = snap.students
	db.teachers = snap.teachers
	db.courses = snap.courses
	db.finance = snap.finance
	db.leads = snap.leads
	db.attendance = snap.attendance
	db.activities = snap.activities
	db.subjects = snap.subjects
	db.rooms = snap.rooms
	db.videos = snap.videos
	db.schedule = snap.schedule
	db.users = snap.users
	db.markers = snap.markers
	db.stats = snap.stats
}

type watchSub struct {
	ctx context.Context
	ch  chan core.ChangeEvent
}

// Watcher is a hand-cranked change feed: tests call Emit to simulate
// database notifications.
type Watcher struct {
	mu   sync.Mutex
	subs []*watchSub
}

var _ core.Watcher = (*Watcher)(nil)

func (w *Watcher) Watch(ctx context.Context) (<-chan core.ChangeEvent, error) {
	sub := &watchSub{ctx: ctx, ch: make(chan core.ChangeEvent, 16)}
	w.mu.Lock()
	w.subs = append(w.subs, sub)
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		close(sub.ch)
		w.mu.Unlock()
	}()
	return sub.ch, nil
}

// Emit delivers a change event to every live subscriber. Full buffers drop
// the event rather than block.
func (w *Watcher) Emit(collection string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subs {
		if sub.ctx.Err() != nil {
			continue
		}
		select {
		case sub.ch <- core.ChangeEvent{Collection: collection}:
		default:
		}
	}
}

// afterCursor reports whether an item at (createdAt, id) comes after the
// cursor in newest-first feed order.
func afterCursor(createdAt time.Time, id string, after *core.Cursor) bool {
	if after == nil || after.IsZero() {
		return true
	}
	if createdAt.Before(after.CreatedAt) {
		return true
	}
	return createdAt.Equal(after.CreatedAt) && id < after.ID
}
