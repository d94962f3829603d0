package schooldata

import (
	"context"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/finance"
)

// Load-more for the recency feeds. Each call fetches one fixed-size page
// ordered after the held cursor and appends it; an empty page clears
// hasMore and every later call is a no-op. Rows are not deduplicated:
// concurrent inserts during pagination may duplicate or skip rows.

func (h *Hub) LoadMoreFinance(ctx context.Context) error {
	h.mu.RLock()
	f := h.financeFeed
	h.mu.RUnlock()
	if !f.hasMore {
		return nil
	}

	var after *core.Cursor
	if !f.cursor.IsZero() {
		after = &f.cursor
	}
	page, err := h.repos.Finance.QueryTransactions(ctx, after, h.pageSize)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(page) == 0 {
		h.financeFeed.hasMore = false
		return nil
	}
	h.finance = append(h.finance, page...)
	h.financeFeed.cursor = lastCursorTxn(page)
	return nil
}

func (h *Hub) LoadMoreAttendance(ctx context.Context) error {
	h.mu.RLock()
	f := h.attendanceFeed
	h.mu.RUnlock()
	if !f.hasMore {
		return nil
	}

	var after *core.Cursor
	if !f.cursor.IsZero() {
		after = &f.cursor
	}
	page, err := h.repos.Attendance.QueryRecords(ctx, after, h.pageSize)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(page) == 0 {
		h.attendanceFeed.hasMore = false
		return nil
	}
	h.attendance = append(h.attendance, page...)
	h.attendanceFeed.cursor = lastCursorRecord(page)
	return nil
}

func (h *Hub) LoadMoreActivities(ctx context.Context) error {
	h.mu.RLock()
	f := h.activitiesFeed
	h.mu.RUnlock()
	if !f.hasMore {
		return nil
	}

	var after *core.Cursor
	if !f.cursor.IsZero() {
		after = &f.cursor
	}
	page, err := h.repos.Activities.QueryActivities(ctx, after, h.pageSize)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(page) == 0 {
		h.activitiesFeed.hasMore = false
		return nil
	}
	h.activities = append(h.activities, page...)
	h.activitiesFeed.cursor = lastCursorActivity(page)
	return nil
}

func lastCursorTxn(page []finance.Transaction) core.Cursor {
	if len(page) == 0 {
		return core.Cursor{}
	}
	last := page[len(page)-1]
	return core.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
}

func lastCursorRecord(page []attendance.Record) core.Cursor {
	if len(page) == 0 {
		return core.Cursor{}
	}
	last := page[len(page)-1]
	return core.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
}

func lastCursorActivity(page []activity.Activity) core.Cursor {
	if len(page) == 0 {
		return core.Cursor{}
	}
	last := page[len(page)-1]
	return core.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
}
