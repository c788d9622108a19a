package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/validation"
)

func names(people []types.Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.Name)
	}
	return out
}

func TestStoreActions(t *testing.T) {
	s := NewStore[types.Person]()
	s.Dispatch(Loaded[types.Person]{Records: []types.Person{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bob"}}})
	s.Dispatch(Created[types.Person]{Record: types.Person{ID: "c", Name: "Cid"}})
	s.Dispatch(Updated[types.Person]{Record: types.Person{ID: "a", Name: "Anna"}})
	s.Dispatch(Deleted[types.Person]{ID: "b"})

	assert.Equal(t, []string{"Anna", "Cid"}, names(s.Records()))

	// Deleting an id nobody has changes nothing.
	s.Dispatch(Deleted[types.Person]{ID: "zzz"})
	assert.Equal(t, 2, s.Len())
}

func TestStoreRecordsIsACopy(t *testing.T) {
	s := NewStore[types.Product]()
	s.Dispatch(Loaded[types.Product]{Records: []types.Product{{ID: "a", Name: "Chair"}}})

	view := s.Records()
	view[0].Name = "changed"

	assert.Equal(t, "Chair", s.Records()[0].Name)
}

func TestToggleCycles(t *testing.T) {
	var s SortState

	s = s.Toggle("name")
	assert.Equal(t, SortState{Column: "name", Direction: Ascending}, s)
	s = s.Toggle("name")
	assert.Equal(t, SortState{Column: "name", Direction: Descending}, s)
	s = s.Toggle("name")
	assert.Equal(t, Unsorted, s.Direction)

	s = s.Toggle("name").Toggle("age")
	assert.Equal(t, SortState{Column: "age", Direction: Ascending}, s, "another column starts ascending")
}

func TestSortedNameThreeTimesRestoresOrder(t *testing.T) {
	people := []types.Person{{Name: "bob"}, {Name: "Ann"}, {Name: ""}, {Name: "carl"}, {Name: "ann"}}

	var state SortState
	state = state.Toggle("name")
	assert.Equal(t, []string{"Ann", "ann", "bob", "carl", ""}, names(Sorted(people, PersonColumns, state)))

	state = state.Toggle("name")
	assert.Equal(t, []string{"carl", "bob", "Ann", "ann", ""}, names(Sorted(people, PersonColumns, state)),
		"stable and missing last when descending")

	state = state.Toggle("name")
	assert.Equal(t, names(people), names(Sorted(people, PersonColumns, state)))
}

func TestSortedByNumberAndDate(t *testing.T) {
	people := []types.Person{
		{Name: "a", Age: 40, Date: types.NewDate(2024, 3, 1)},
		{Name: "b", Age: 5},
		{Name: "c", Age: 12, Date: types.NewDate(2023, 1, 1)},
	}

	byAge := Sorted(people, PersonColumns, SortState{Column: "age", Direction: Ascending})
	assert.Equal(t, []string{"b", "c", "a"}, names(byAge))

	byDate := Sorted(people, PersonColumns, SortState{Column: "date", Direction: Descending})
	assert.Equal(t, []string{"a", "c", "b"}, names(byDate), "zero date last")

	products := []types.Product{{Name: "x", Price: 9.5}, {Name: "y", Price: 1}}
	byPrice := Sorted(products, ProductColumns, SortState{Column: "price", Direction: Ascending})
	assert.Equal(t, "y", byPrice[0].Name)
}

func TestSortedLeavesInputAlone(t *testing.T) {
	people := []types.Person{{Name: "b"}, {Name: "a"}}
	_ = Sorted(people, PersonColumns, SortState{Column: "name", Direction: Ascending})
	assert.Equal(t, "b", people[0].Name)
}

func TestPersonFormSubmitBlocked(t *testing.T) {
	tests := []struct {
		name      string
		set       map[string]string
		highlight string
		contains  string
	}{
		{"empty name", map[string]string{"age": "30"}, "name", validation.MsgName},
		{"age zero", map[string]string{"name": "Ann", "age": "0"}, "age", validation.MsgAge},
		{"negative age", map[string]string{"name": "Ann", "age": "-3"}, "age", validation.MsgAge},
		{"bad email", map[string]string{"name": "Ann", "age": "3", "email": "a@b"}, "email", validation.MsgEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPersonForm()
			f.OpenCreate(types.NewDate(2024, 1, 1))
			for k, v := range tt.set {
				require.NoError(t, f.Set(k, v))
			}

			_, errs := f.Submit()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs.Message(), tt.contains)
			assert.Equal(t, tt.highlight, f.Highlight)
			assert.True(t, f.Flagged(tt.highlight))
			assert.True(t, f.IsOpen())
		})
	}
}

func TestPersonFormSetClearsFlag(t *testing.T) {
	f := NewPersonForm()
	f.OpenCreate(types.NewDate(2024, 1, 1))

	_, errs := f.Submit()
	require.Equal(t, []string{"age", "name"}, []string{errs[0].Field, errs[1].Field})
	assert.Equal(t, "age", f.Highlight)

	require.NoError(t, f.Set("name", "Ann"))
	assert.False(t, f.Flagged("name"))
	assert.True(t, f.Flagged("age"))
	assert.Equal(t, "age", f.Highlight, "highlight stays on another field")

	require.NoError(t, f.Set("age", "30"))
	assert.Empty(t, f.Highlight)

	p, errs := f.Submit()
	require.Empty(t, errs)
	assert.Equal(t, types.Person{Name: "Ann", Age: 30, Date: types.NewDate(2024, 1, 1)}, p)
}

func TestPersonFormSetParses(t *testing.T) {
	f := NewPersonForm()
	f.OpenCreate(types.Date{})

	assert.Error(t, f.Set("age", "thirty"))
	assert.Error(t, f.Set("date", "01/02/2024"))
	assert.Error(t, f.Set("colour", "red"))

	require.NoError(t, f.Set("date", "2024-05-06"))
	assert.Equal(t, types.NewDate(2024, 5, 6), f.Value.Date)
}

func TestPersonFormModes(t *testing.T) {
	f := NewPersonForm()
	require.NoError(t, f.OpenEdit(types.Person{ID: "abc", Name: "Ann", Age: 1}))

	assert.True(t, f.Mode.IsEdit())
	assert.Equal(t, "abc", f.Mode.ID())
	assert.Equal(t, "Ann", f.Value.Name)

	f.Close()
	assert.False(t, f.IsOpen())
	assert.False(t, f.Mode.IsEdit())
	assert.Equal(t, types.Person{}, f.Value)
}

func TestEditModeIsNotCreate(t *testing.T) {
	m := EditMode("")
	assert.True(t, m.IsEdit())
	assert.NotEqual(t, CreateMode(), m)
	assert.Equal(t, Mode{}, CreateMode(), "zero Mode creates")
}

func TestOpenEditRequiresID(t *testing.T) {
	f := NewPersonForm()
	err := f.OpenEdit(types.Person{Name: "Ann", Age: 1})

	assert.ErrorIs(t, err, ErrNoID)
	assert.False(t, f.IsOpen())
	assert.False(t, f.Mode.IsEdit())
}

func TestProductFormCategory(t *testing.T) {
	f := NewProductForm()
	f.OpenCreate()
	assert.Equal(t, types.CategoryUndefined, f.Value.Category)

	require.NoError(t, f.Set("name", "Box"))
	require.NoError(t, f.Set("price", "3.5"))
	require.NoError(t, f.Set("category", "Food"))

	_, errs := f.Submit()
	require.Len(t, errs, 1)
	assert.Equal(t, "category", f.Highlight)
	assert.Equal(t, validation.MsgCategory, errs.Message())

	// Clearing the field is not the same as choosing Undefined.
	require.NoError(t, f.Set("category", ""))
	_, errs = f.Submit()
	require.Len(t, errs, 1)
	assert.Equal(t, "category", f.Highlight)
	assert.Equal(t, validation.MsgCategory, errs.Message())

	require.NoError(t, f.Set("category", "Tool"))
	p, errs := f.Submit()
	require.Empty(t, errs)
	assert.Equal(t, types.Product{Name: "Box", Price: 3.5, Category: types.CategoryTool}, p)
}
