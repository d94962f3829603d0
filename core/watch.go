package core

import "context"

// Collections mirrored by the live-synchronization layer. Values match the
// table names announced on the change channel.
const (
	CollectionStudents   = "students"
	CollectionTeachers   = "teachers"
	CollectionCourses    = "courses"
	CollectionSubjects   = "subjects"
	CollectionRooms      = "rooms"
	CollectionFinance    = "finance"
	CollectionAttendance = "attendance"
	CollectionActivities = "activities"
	CollectionLeads      = "leads"
)

// ChangeEvent announces that rows of a collection changed. It carries no row
// data: consumers reload the collection snapshot.
type ChangeEvent struct {
	Collection string
}

// Watcher is a push subscription on all mirrored collections.
type Watcher interface {
	// Watch delivers change events until ctx is cancelled. The returned
	// channel is closed on teardown.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}
