package schooldata

import (
	"context"
	"sync"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/catalog"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/student"
	"github.com/davronbek/proteach/core/teacher"
)

const (
	// StudentsCap bounds the live students mirror.
	StudentsCap = 200

	// DefaultPageSize is the fixed page size of the recency feeds.
	DefaultPageSize = 20

	// settleDelay is waited after the primary collections have loaded before
	// the hub reports ready, so consumers never render a half-filled mirror.
	settleDelay = 400 * time.Millisecond
)

type (
	Repositories struct {
		Students   student.Repository
		Teachers   teacher.Repository
		Courses    course.Repository
		Catalog    catalog.Repository
		Finance    finance.Repository
		Attendance attendance.Repository
		Activities activity.Repository
		Leads      lead.Repository
	}

	// feed tracks one paginated recency feed's position.
	feed struct {
		cursor  core.Cursor
		hasMore bool
	}

	// Hub keeps in-memory mirrors of the remote collections, refreshed on
	// every change event pushed by the Watcher. It is the single read model
	// the UI layer consumes; entities remain owned by the store.
	Hub struct {
		repos    Repositories
		watcher  core.Watcher
		log      core.Logger
		pageSize int

		mu         sync.RWMutex
		students   []student.Student
		teachers   []teacher.Teacher
		courses    []course.Course
		subjects   []catalog.Subject
		rooms      []catalog.Room
		finance    []finance.Transaction
		attendance []attendance.Record
		activities []activity.Activity
		leads      []lead.Lead

		financeFeed    feed
		attendanceFeed feed
		activitiesFeed feed

		ready       bool
		readyTimer  *time.Timer
		cancelWatch context.CancelFunc
		done        chan struct{}
	}
)

func NewHub(repos Repositories, watcher core.Watcher, log core.Logger) *Hub {
	return &Hub{
		repos:          repos,
		watcher:        watcher,
		log:            log,
		pageSize:       DefaultPageSize,
		financeFeed:    feed{hasMore: true},
		attendanceFeed: feed{hasMore: true},
		activitiesFeed: feed{hasMore: true},
	}
}

// Start loads every mirrored collection once, opens the change subscription
// and arms the readiness delay. It must be paired with Close.
func (h *Hub) Start(ctx context.Context) error {
	for _, coll := range []string{
		core.CollectionStudents, core.CollectionTeachers, core.CollectionCourses,
		core.CollectionSubjects, core.CollectionRooms, core.CollectionFinance,
		core.CollectionAttendance, core.CollectionActivities, core.CollectionLeads,
	} {
		if err := h.reload(ctx, coll); err != nil {
			return err
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	h.cancelWatch = cancel
	events, err := h.watcher.Watch(watchCtx)
	if err != nil {
		cancel()
		return err
	}

	h.done = make(chan struct{})
	go h.fanout(watchCtx, events)

	h.readyTimer = time.AfterFunc(settleDelay, func() {
		h.mu.Lock()
		h.ready = true
		h.mu.Unlock()
	})
	return nil
}

// Close cancels the subscription and waits for the fan-out goroutine; no
// mirror is updated afterwards.
func (h *Hub) Close() {
	if h.readyTimer != nil {
		h.readyTimer.Stop()
	}
	if h.cancelWatch != nil {
		h.cancelWatch()
	}
	if h.done != nil {
		<-h.done
	}
}

// Ready reports whether the primary collections have loaded and settled.
func (h *Hub) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

func (h *Hub) fanout(ctx context.Context, events <-chan core.ChangeEvent) {
	defer close(h.done)
	for ev := range events {
		if err := h.reload(ctx, ev.Collection); err != nil {
			// a broken reload leaves the previous mirror in place
			h.log.Warn("reloading collection mirror", err, map[string]interface{}{"collection": ev.Collection})
		}
	}
}

func (h *Hub) reload(ctx context.Context, collection string) error {
	switch collection {
	case core.CollectionStudents:
		ordering := []core.DBOrdering{{Field: "name", Ascending: true}}
		students, err := h.repos.Students.QueryStudents(ctx, nil, ordering, StudentsCap)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.students = students
		h.mu.Unlock()

	case core.CollectionTeachers:
		teachers, err := h.repos.Teachers.QueryTeachers(ctx, []core.DBOrdering{{Field: "name", Ascending: true}})
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.teachers = teachers
		h.mu.Unlock()

	case core.CollectionCourses:
		courses, err := h.repos.Courses.QueryCourses(ctx, []core.DBOrdering{{Field: "title", Ascending: true}})
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.courses = courses
		h.mu.Unlock()

	case core.CollectionSubjects:
		subjects, err := h.repos.Catalog.QuerySubjects(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.subjects = subjects
		h.mu.Unlock()

	case core.CollectionRooms:
		rooms, err := h.repos.Catalog.QueryRooms(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.rooms = rooms
		h.mu.Unlock()

	case core.CollectionFinance:
		txns, err := h.repos.Finance.QueryTransactions(ctx, nil, h.pageSize)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.finance = txns
		h.financeFeed = resetFeed(lastCursorTxn(txns), len(txns))
		h.mu.Unlock()

	case core.CollectionAttendance:
		recs, err := h.repos.Attendance.QueryRecords(ctx, nil, h.pageSize)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.attendance = recs
		h.attendanceFeed = resetFeed(lastCursorRecord(recs), len(recs))
		h.mu.Unlock()

	case core.CollectionActivities:
		acts, err := h.repos.Activities.QueryActivities(ctx, nil, h.pageSize)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.activities = acts
		h.activitiesFeed = resetFeed(lastCursorActivity(acts), len(acts))
		h.mu.Unlock()

	case core.CollectionLeads:
		leads, err := h.repos.Leads.QueryLeads(ctx, h.pageSize)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.leads = leads
		h.mu.Unlock()
	}
	return nil
}

func resetFeed(cursor core.Cursor, fetched int) feed {
	return feed{cursor: cursor, hasMore: fetched > 0}
}

// Accessors. Slices are copied so callers cannot mutate the mirror.

func (h *Hub) Students() []student.Student {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]student.Student(nil), h.students...)
}

func (h *Hub) Teachers() []teacher.Teacher {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]teacher.Teacher(nil), h.teachers...)
}

func (h *Hub) Courses() []course.Course {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]course.Course(nil), h.courses...)
}

func (h *Hub) Subjects() []catalog.Subject {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]catalog.Subject(nil), h.subjects...)
}

func (h *Hub) Rooms() []catalog.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]catalog.Room(nil), h.rooms...)
}

func (h *Hub) Finance() []finance.Transaction {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]finance.Transaction(nil), h.finance...)
}

func (h *Hub) Attendance() []attendance.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]attendance.Record(nil), h.attendance...)
}

func (h *Hub) Activities() []activity.Activity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]activity.Activity(nil), h.activities...)
}

func (h *Hub) Leads() []lead.Lead {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]lead.Lead(nil), h.leads...)
}
