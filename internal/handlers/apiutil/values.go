package apiutil

import (
	"encoding/json"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Amount is a money value that accepts either a JSON number or a decimal
// string.
type Amount struct {
	decimal.Decimal
	Set bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if err := a.Decimal.UnmarshalJSON(data); err != nil {
		return err
	}
	a.Set = true
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.StringFixed(2))
}

func (Amount) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Decimal amount as a number or a string",
		OneOf: []*huma.Schema{
			{Type: huma.TypeNumber},
			{Type: huma.TypeString, Pattern: `^-?[0-9]+(\.[0-9]+)?$`},
		},
	}
}

// Ptr returns nil when the amount was not supplied.
func (a Amount) Ptr() *decimal.Decimal {
	if !a.Set {
		return nil
	}
	d := a.Decimal
	return &d
}

// Money renders an amount the way every response does.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func MoneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Money(*d)
	return &s
}

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseID parses a uuid supplied in a query string or body field.
func ParseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, NewError(400, "Invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalID returns nil for an empty string.
func ParseOptionalID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func IDPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// PageQuery is embedded in list inputs.
type PageQuery struct {
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
	Position int `query:"position" minimum:"0" doc:"Offset of the first row"`
}

// Cursor is returned by list endpoints when another page exists.
type Cursor struct {
	Position int `json:"position" doc:"Offset of the next page"`
	Limit    int `json:"limit" doc:"Page size used for this cursor"`
}
