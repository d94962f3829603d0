package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/davronbek/proteach/core"
)

// queryer is what every repository method needs from its executor; both
// *sqlx.DB and *sqlx.Tx satisfy it.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// getExec picks the service-provided transaction executor when present,
// falling back to the repository's own connection.
func getExec(db *sqlx.DB, svcExec []core.DBExecutor) queryer {
	if len(svcExec) > 0 {
		if q, ok := svcExec[0].(queryer); ok {
			return q
		}
	}
	return db
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}
