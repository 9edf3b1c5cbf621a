package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
)

const dateLayout = "2006-01-02"

var errBadDate = "must be formatted as YYYY-MM-DD"

// intParam parses a numeric path param; an unparseable ID reads as not found.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func boolQuery(ctx echo.Context, name string) bool {
	v, _ := strconv.ParseBool(ctx.QueryParam(name))
	return v
}

// DateRange binds the optional `from` and `to` query params.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (dr *DateRange) Bind(ctx echo.Context) error {
	var err error
	if v := ctx.QueryParam("from"); v != "" {
		if dr.From, err = time.Parse(dateLayout, v); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "from", Error: errBadDate})
		}
	}
	if v := ctx.QueryParam("to"); v != "" {
		if dr.To, err = time.Parse(dateLayout, v); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "to", Error: errBadDate})
		}
	}
	return nil
}

// dateQuery binds the `date` query param, defaulting to today.
func dateQuery(ctx echo.Context) (time.Time, error) {
	v := ctx.QueryParam("date")
	if v == "" {
		return core.Today(), nil
	}
	date, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: errBadDate})
	}
	return date, nil
}
