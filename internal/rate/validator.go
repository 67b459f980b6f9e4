package rate

import (
	"errors"
	"fmt"
	"nbprates/internal/domain"
	"regexp"
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrCodesRequired    = fmt.Errorf("%w: at least one currency code is required", ErrInvalidQuery)
	ErrCodeInvalid      = fmt.Errorf("%w: currency code must be three letters", ErrInvalidQuery)
	ErrCourseKindBad    = fmt.Errorf("%w: course kind must be one of mid, bid, ask", ErrInvalidQuery)
	ErrDateRequired     = fmt.Errorf("%w: date range is required", ErrInvalidQuery)
	ErrDateRangeInvalid = fmt.Errorf("%w: date_from must not be after date_to", ErrInvalidQuery)
)

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

type QueryValidator struct{}

// Validate checks q and returns the price column it selects. An empty course kind selects
// no column, which keeps rows regardless of which prices they carry.
func (QueryValidator) Validate(q Query) (domain.PriceColumn, error) {
	if len(q.Codes) == 0 {
		return "", ErrCodesRequired
	}
	for _, c := range q.Codes {
		if !codePattern.MatchString(c) {
			return "", ErrCodeInvalid
		}
	}
	if q.From.IsZero() || q.To.IsZero() {
		return "", ErrDateRequired
	}
	if q.From.After(q.To) {
		return "", ErrDateRangeInvalid
	}
	if q.CourseKind == "" {
		return "", nil
	}
	col, ok := domain.ParsePriceColumn(q.CourseKind)
	if !ok {
		return "", ErrCourseKindBad
	}
	return col, nil
}

func NewValidator() *QueryValidator {
	return &QueryValidator{}
}
