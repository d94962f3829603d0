package deduction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
)

// errSkipCourse aborts a course's commit without charging it: nothing is
// persisted, including the marker, so a later sweep re-evaluates the course.
var errSkipCourse = errors.New("course skipped")

type (
	MarkerRepository interface {
		// CreateMarkerIfAbsent atomically claims the (course, date) key.
		// It returns false when the marker already existed; callers must then
		// leave the course untouched.
		CreateMarkerIfAbsent(ctx context.Context, m Marker, exec ...core.DBExecutor) (bool, error)
		QueryMarkersByDate(ctx context.Context, date string, exec ...core.DBExecutor) ([]Marker, error)
	}

	// Engine charges every active course's enrolled students their per-diem
	// tuition, at most once per course per calendar day. It is invoked
	// opportunistically (API trigger, admin CLI), not on a timer.
	Engine struct {
		courses   course.Repository
		students  student.Repository
		finance   finance.Repository
		markers   MarkerRepository
		statsRepo stats.Repository
		tx        core.Transactor
		recorder  *activity.Recorder
		log       core.Logger
	}
)

func NewEngine(
	courses course.Repository,
	students student.Repository,
	financeRepo finance.Repository,
	markers MarkerRepository,
	statsRepo stats.Repository,
	tx core.Transactor,
	rec *activity.Recorder,
	log core.Logger,
) *Engine {
	return &Engine{
		courses:   courses,
		students:  students,
		finance:   financeRepo,
		markers:   markers,
		statsRepo: statsRepo,
		tx:        tx,
		recorder:  rec,
		log:       log,
	}
}

// Settled lists the claims committed for now's calendar day: one marker per
// course already charged today.
func (e *Engine) Settled(ctx context.Context, now time.Time) ([]Marker, error) {
	return e.markers.QueryMarkersByDate(ctx, core.DateKey(now))
}

// Run performs the sweep for the calendar day of now. Each qualifying course
// is processed in its own atomic commit, sequentially; a failing course is
// logged and does not stop the sweep.
func (e *Engine) Run(ctx context.Context, now time.Time) (Summary, error) {
	sum := Summary{Date: core.DateKey(now)}

	courses, err := e.courses.QueryCourses(ctx, []core.DBOrdering{{Field: "title", Ascending: true}})
	if err != nil {
		return sum, err
	}

	for _, crs := range courses {
		if crs.Status != course.StatusActive || crs.StartTime == "" || !crs.MeetsOn(now.Weekday()) {
			continue
		}
		sum.CoursesMatched++

		charged, total, err := e.chargeCourse(ctx, crs, sum.Date)
		if err == errSkipCourse {
			continue
		}
		if err != nil {
			e.log.Error("daily deduction", err, map[string]interface{}{"course": crs.ID, "date": sum.Date})
			continue
		}
		if charged == 0 {
			continue // marker already present
		}
		sum.CoursesCharged++
		sum.StudentsCharged += charged
		sum.TotalDeducted += total
		e.recorder.Record(ctx, activity.KindDeduction,
			fmt.Sprintf("tuition deducted for %q: %d student(s), %d total", crs.Title, charged, total), crs.ID)
	}
	return sum, nil
}

// chargeCourse applies one course's daily fee inside a single commit:
// marker claim, per-student balance debits, one expense transaction per
// student, and the revenue decrement. Returns (0, 0, nil) when the day was
// already settled for the course.
func (e *Engine) chargeCourse(ctx context.Context, crs course.Course, date string) (int, int64, error) {
	fee := crs.DailyFee()

	var charged int
	var total int64
	err := e.tx.InTx(ctx, func(exec core.DBExecutor) error {
		created, err := e.markers.CreateMarkerIfAbsent(ctx, Marker{
			CourseID:  crs.ID,
			Date:      date,
			CreatedAt: time.Now().UTC(),
		}, exec)
		if err != nil {
			return err
		}
		if !created {
			return nil // already processed today
		}

		enrolled, err := e.students.GetStudentsByCourse(ctx, crs.ID, exec)
		if err != nil {
			return err
		}
		if len(enrolled) == 0 || fee <= 0 {
			return errSkipCourse // roll back the marker claim
		}

		for _, std := range enrolled {
			if err := e.students.AdjustStudentBalance(ctx, std.ID, -fee, exec); err != nil {
				return err
			}
			txn := finance.Transaction{
				Title:     fmt.Sprintf("Daily tuition: %s", crs.Title),
				Amount:    -fee,
				Type:      finance.TypeExpense,
				StudentID: std.ID,
				CreatedAt: time.Now().UTC(),
			}
			if _, err := e.finance.CreateTransaction(ctx, txn, exec); err != nil {
				return err
			}
		}

		charged = len(enrolled)
		total = fee * int64(charged)
		return e.statsRepo.ApplyDelta(ctx, stats.Delta{Revenue: -total}, exec)
	})
	if err != nil {
		return 0, 0, err
	}
	return charged, total, nil
}
