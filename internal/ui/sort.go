package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aanand-mishra/records-api/internal/types"
)

type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unsorted"
	}
}

// SortState is the active sort: one column at a time.
type SortState struct {
	Column    string
	Direction Direction
}

// Toggle activates column. Repeated activation cycles
// ascending → descending → unsorted; a different column starts ascending.
func (s SortState) Toggle(column string) SortState {
	if column != s.Column || s.Direction == Unsorted {
		return SortState{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Column: column, Direction: Descending}
	}
	return SortState{}
}

type keyKind int

const (
	kindString keyKind = iota
	kindNumber
	kindDate
)

// Column describes one table column of T.
type Column[T any] struct {
	Name string
	// Text renders the cell.
	Text func(T) string

	kind keyKind
	str  func(T) string
	num  func(T) float64
	date func(T) types.Date
}

func StringColumn[T any](name string, get func(T) string) Column[T] {
	return Column[T]{Name: name, Text: get, kind: kindString, str: get}
}

func NumberColumn[T any](name string, get func(T) float64) Column[T] {
	return Column[T]{
		Name: name,
		Text: func(v T) string { return strconv.FormatFloat(get(v), 'f', -1, 64) },
		kind: kindNumber,
		num:  get,
	}
}

func DateColumn[T any](name string, get func(T) types.Date) Column[T] {
	return Column[T]{
		Name: name,
		Text: func(v T) string { return get(v).String() },
		kind: kindDate,
		date: get,
	}
}

// missing reports values that always sort last.
func (c Column[T]) missing(v T) bool {
	switch c.kind {
	case kindString:
		return c.str(v) == ""
	case kindDate:
		return c.date(v).IsZero()
	default:
		return false
	}
}

func (c Column[T]) compare(coll *collate.Collator, a, b T) int {
	switch c.kind {
	case kindNumber:
		return cmp.Compare(c.num(a), c.num(b))
	case kindDate:
		return c.date(a).Compare(c.date(b).Time)
	default:
		return coll.CompareString(c.str(a), c.str(b))
	}
}

// FindColumn returns the column called name.
func FindColumn[T any](columns []Column[T], name string) (Column[T], error) {
	for _, c := range columns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column[T]{}, fmt.Errorf("unknown column %q", name)
}

// Sorted returns a sorted copy of records. The sort is stable, empty values
// go last in both directions, and strings compare case-insensitively in
// locale order. An unsorted state returns the store order.
func Sorted[T any](records []T, columns []Column[T], state SortState) []T {
	out := slices.Clone(records)
	if state.Direction == Unsorted {
		return out
	}
	col, err := FindColumn(columns, state.Column)
	if err != nil {
		return out
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b T) int {
		am, bm := col.missing(a), col.missing(b)
		switch {
		case am && bm:
			return 0
		case am:
			return 1
		case bm:
			return -1
		}
		c := col.compare(coll, a, b)
		if state.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

var PersonColumns = []Column[types.Person]{
	StringColumn("name", func(p types.Person) string { return p.Name }),
	NumberColumn("age", func(p types.Person) float64 { return float64(p.Age) }),
	StringColumn("nickname", func(p types.Person) string { return p.Nickname }),
	DateColumn("date", func(p types.Person) types.Date { return p.Date }),
	StringColumn("email", func(p types.Person) string { return p.Email }),
}

var ProductColumns = []Column[types.Product]{
	StringColumn("name", func(p types.Product) string { return p.Name }),
	NumberColumn("price", func(p types.Product) float64 { return p.Price }),
	StringColumn("category", func(p types.Product) string { return string(p.Category) }),
}
