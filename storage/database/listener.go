package database

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/davronbek/proteach/core"
)

// changeChannel is the NOTIFY channel written by the migration-installed
// triggers on every mirrored table.
const changeChannel = "proteach_changes"

// Listener is the Postgres push subscription backing the live-sync layer.
// It wraps pq.Listener, which reconnects on its own; a connection loss is
// logged and otherwise silently drops updates until reconnected.
type Listener struct {
	dsn string
	log core.Logger
}

var _ core.Watcher = (*Listener)(nil)

func NewListener(conf *core.Config, log core.Logger) *Listener {
	return &Listener{dsn: DSN(conf), log: log}
}

func (l *Listener) Watch(ctx context.Context) (<-chan core.ChangeEvent, error) {
	pql := pq.NewListener(l.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.log.Warn("change listener connection", err)
		}
	})
	if err := pql.Listen(changeChannel); err != nil {
		_ = pql.Close()
		return nil, err
	}

	events := make(chan core.ChangeEvent)
	go func() {
		defer close(events)
		defer func() { _ = pql.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-pql.Notify:
				if !ok {
					return
				}
				if n == nil { // reconnect marker
					continue
				}
				select {
				case events <- core.ChangeEvent{Collection: n.Extra}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
