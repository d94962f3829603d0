package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/davronbek/proteach/core"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.Validate.Struct(r)
}

// FeedPage binds the cursor query params of the paginated feeds:
// ?limit=20&after_at=<RFC3339>&after_id=<uuid>
type FeedPage struct {
	Limit int
	After *core.Cursor
}

func (p *FeedPage) Bind(ctx echo.Context) error {
	p.Limit = 20
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "must be an integer between 1 and 100"})
		}
		p.Limit = n
	}

	afterAt := ctx.QueryParam("after_at")
	afterID := ctx.QueryParam("after_id")
	if afterAt == "" && afterID == "" {
		return nil
	}
	at, err := time.Parse(time.RFC3339, afterAt)
	if err != nil || afterID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "after_at", Error: "after_at and after_id must be provided together, after_at in RFC3339"})
	}
	p.After = &core.Cursor{CreatedAt: at, ID: afterID}
	return nil
}
