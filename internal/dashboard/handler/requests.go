package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"povertymap/internal/dashboard/views"
	"povertymap/internal/poverty/aggregate"
	dErrors "povertymap/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultTopN is the list length when n is omitted.
const DefaultTopN = 5

// TopQuery is the query string of GET /governorates/top.
type TopQuery struct {
	N         int    `validate:"gte=0,lte=1000"`
	Direction string `validate:"omitempty,oneof=desc asc"`
}

func (q TopQuery) direction() aggregate.Direction {
	if q.Direction == "" {
		return aggregate.Descending
	}
	return aggregate.Direction(q.Direction)
}

// ListQuery is the query string of GET /governorates.
type ListQuery struct {
	Sort string `validate:"omitempty,oneof=alpha rate"`
}

func (q ListQuery) order() views.GovernorateSort {
	if q.Sort == "" {
		return views.SortAlpha
	}
	return views.GovernorateSort(q.Sort)
}

func parseTopQuery(r *http.Request) (TopQuery, error) {
	values := r.URL.Query()
	q := TopQuery{
		N:         DefaultTopN,
		Direction: strings.ToLower(strings.TrimSpace(values.Get("direction"))),
	}
	if raw := strings.TrimSpace(values.Get("n")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return TopQuery{}, dErrors.Newf(dErrors.CodeBadRequest, "n must be an integer, got %q", raw)
		}
		q.N = n
	}
	if err := validate.Struct(q); err != nil {
		return TopQuery{}, validationError(err)
	}
	return q, nil
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	q := ListQuery{Sort: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))}
	if err := validate.Struct(q); err != nil {
		return ListQuery{}, validationError(err)
	}
	return q, nil
}

func validationError(err error) error {
	var (
		msgs []string
		errs validator.ValidationErrors
	)
	if errors.As(err, &errs) {
		for _, fe := range errs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "oneof":
				msgs = append(msgs, field+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
			case "gte":
				msgs = append(msgs, field+" must be at least "+fe.Param())
			case "lte":
				msgs = append(msgs, field+" must be at most "+fe.Param())
			default:
				msgs = append(msgs, field+" is invalid")
			}
		}
	}
	if len(msgs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid query")
	}
	return dErrors.New(dErrors.CodeBadRequest, strings.Join(msgs, "; "))
}
