package apiutil

import (
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Partial update bodies use pointer fields: an absent or null field leaves
// the column alone. For nullable columns an empty string clears the value.

func OptString(p *string) omit.Val[string] {
	if p == nil {
		return omit.Val[string]{}
	}
	return omit.From(*p)
}

func OptNullString(p *string) omit.Val[*string] {
	if p == nil {
		return omit.Val[*string]{}
	}
	if strings.TrimSpace(*p) == "" {
		return omit.From[*string](nil)
	}
	v := *p
	return omit.From(&v)
}

func OptAmount(a Amount) omit.Val[decimal.Decimal] {
	if !a.Set {
		return omit.Val[decimal.Decimal]{}
	}
	return omit.From(a.Decimal)
}

func OptNullAmount(a Amount) omit.Val[*decimal.Decimal] {
	if !a.Set {
		return omit.Val[*decimal.Decimal]{}
	}
	return omit.From(a.Ptr())
}

func OptID(field string, p *string) (omit.Val[uuid.UUID], error) {
	if p == nil {
		return omit.Val[uuid.UUID]{}, nil
	}
	id, err := ParseID(field, *p)
	if err != nil {
		return omit.Val[uuid.UUID]{}, err
	}
	return omit.From(id), nil
}

func OptNullID(field string, p *string) (omit.Val[*uuid.UUID], error) {
	if p == nil {
		return omit.Val[*uuid.UUID]{}, nil
	}
	if *p == "" {
		return omit.From[*uuid.UUID](nil), nil
	}
	id, err := ParseID(field, *p)
	if err != nil {
		return omit.Val[*uuid.UUID]{}, err
	}
	return omit.From(&id), nil
}

func OptDate(field string, p *string) (omit.Val[time.Time], error) {
	if p == nil {
		return omit.Val[time.Time]{}, nil
	}
	t, err := ParseDate(*p)
	if err != nil {
		return omit.Val[time.Time]{}, NewError(400, "Invalid "+field, err)
	}
	return omit.From(t), nil
}

func OptNullDate(field string, p *string) (omit.Val[*time.Time], error) {
	if p == nil {
		return omit.Val[*time.Time]{}, nil
	}
	if *p == "" {
		return omit.From[*time.Time](nil), nil
	}
	t, err := ParseDate(*p)
	if err != nil {
		return omit.Val[*time.Time]{}, NewError(400, "Invalid "+field, err)
	}
	return omit.From(&t), nil
}

// OptionalDate parses an optional date for create bodies.
func OptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, NewError(400, "Invalid "+field, err)
	}
	return &t, nil
}

// NullIfEmpty trims s and returns nil when nothing is left.
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
