package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/client"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/validation"
)

type alerts []string

func (a *alerts) Alert(msg string) { *a = append(*a, msg) }

type fakePeople struct {
	people  []types.Person
	calls   []string
	nextID  int
	failErr error
}

func (f *fakePeople) List(context.Context) ([]types.Person, error) {
	f.calls = append(f.calls, "list")
	return f.people, nil
}

func (f *fakePeople) Create(_ context.Context, p types.Person) (types.Person, error) {
	f.calls = append(f.calls, "create")
	if f.failErr != nil {
		return types.Person{}, f.failErr
	}
	f.nextID++
	p.ID = string(rune('a' + f.nextID))
	return p, nil
}

func (f *fakePeople) Update(_ context.Context, id string, p types.Person) (types.Person, error) {
	f.calls = append(f.calls, "update "+id)
	if f.failErr != nil {
		return types.Person{}, f.failErr
	}
	p.ID = id
	return p, nil
}

func (f *fakePeople) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	return f.failErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func today() types.Date { return types.NewDate(2024, 1, 1) }

func newPeople(t *testing.T, api API[types.Person]) (*Controller[types.Person], *alerts) {
	t.Helper()
	var a alerts
	c := NewPeopleController(api, &a, quietLogger(), today)
	require.NoError(t, c.Load(context.Background()))
	return c, &a
}

func TestSaveCreate(t *testing.T) {
	api := &fakePeople{people: []types.Person{{ID: "x", Name: "Xena", Age: 3, Date: today()}}}
	c, a := newPeople(t, api)

	c.Add()
	assert.Equal(t, today(), c.Form.Value.Date, "new person defaults to today")
	require.NoError(t, c.Form.Set("name", "Ann"))
	require.NoError(t, c.Form.Set("age", "30"))
	require.NoError(t, c.Form.Set("email", "a@b.com"))

	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, []string{"list", "create"}, api.calls)
	assert.Equal(t, alerts{"User is added."}, *a)
	assert.False(t, c.Form.IsOpen())
	require.Equal(t, 2, c.Store.Len())
	assert.NotEmpty(t, c.Store.Records()[1].ID)
}

func TestSaveUpdate(t *testing.T) {
	api := &fakePeople{people: []types.Person{{ID: "x", Name: "Xena", Age: 3, Date: today()}}}
	c, a := newPeople(t, api)

	require.NoError(t, c.Edit(c.Rows()[0]))
	require.NoError(t, c.Form.Set("age", "4"))
	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, []string{"list", "update x"}, api.calls)
	assert.Equal(t, alerts{"User is updated."}, *a)
	assert.Equal(t, 4, c.Store.Records()[0].Age)
}

func TestEditWithoutIDSendsNothing(t *testing.T) {
	api := &fakePeople{}
	c, a := newPeople(t, api)

	err := c.Edit(types.Person{Name: "Ann", Age: 30, Date: today()})
	require.ErrorIs(t, err, ErrNoID)
	assert.False(t, c.Form.IsOpen())

	// A form forced into edit mode with no id must not fall back to create.
	c.Add()
	require.NoError(t, c.Form.Set("name", "Ann"))
	require.NoError(t, c.Form.Set("age", "30"))
	c.Form.Mode = EditMode("")

	require.ErrorIs(t, c.Save(context.Background()), ErrNoID)
	assert.Equal(t, []string{"list"}, api.calls)
	assert.Equal(t, alerts{ErrNoID.Error()}, *a)
	assert.True(t, c.Form.IsOpen())
}

func TestSaveInvalidSendsNothing(t *testing.T) {
	api := &fakePeople{}
	c, a := newPeople(t, api)

	c.Add()
	require.NoError(t, c.Form.Set("name", ""))
	require.NoError(t, c.Form.Set("age", "0"))

	err := c.Save(context.Background())
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)

	assert.Equal(t, []string{"list"}, api.calls, "no create call")
	assert.Equal(t, alerts{validation.MsgAge + "\n\n" + validation.MsgName}, *a)
	assert.True(t, c.Form.IsOpen())
	assert.Equal(t, "age", c.Form.Highlight)
}

func TestSaveRequestFailureKeepsForm(t *testing.T) {
	api := &fakePeople{failErr: &client.APIError{Status: http.StatusInternalServerError, Message: "disk full"}}
	c, a := newPeople(t, api)

	c.Add()
	require.NoError(t, c.Form.Set("name", "Ann"))
	require.NoError(t, c.Form.Set("age", "30"))

	err := c.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, alerts{"Request failed: disk full"}, *a)
	assert.True(t, c.Form.IsOpen())
	assert.Equal(t, "Ann", c.Form.Value.Name)
	assert.Equal(t, 0, c.Store.Len())
}

func TestDeleteFailureIsSwallowed(t *testing.T) {
	api := &fakePeople{people: []types.Person{{ID: "x", Name: "Xena"}}}
	c, a := newPeople(t, api)
	api.failErr = errors.New("connection refused")

	c.Delete(context.Background(), "x")

	assert.Empty(t, *a, "no alert")
	assert.Equal(t, 1, c.Store.Len(), "row stays")
}

func TestToggleSortUnknownColumn(t *testing.T) {
	c, _ := newPeople(t, &fakePeople{})
	assert.Error(t, c.ToggleSort("salary"))
	assert.NoError(t, c.ToggleSort("email"))
	assert.Equal(t, SortState{Column: "email", Direction: Ascending}, c.Sort)
}

func TestDeleteIssuesExactlyOneRequest(t *testing.T) {
	var deletes atomic.Int32
	var deletedPath atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/getProducts":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"_id":"p1","name":"Chair","price":10,"category":"Furniture"},` +
				`{"_id":"p2","name":"Drill","price":50,"category":"Tool"}]`))
		case r.Method == http.MethodDelete:
			deletes.Add(1)
			deletedPath.Store(r.URL.Path)
			_, _ = w.Write([]byte(`{"message":"Product deleted"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var a alerts
	c := NewProductsController(ProductsAPI{client.New(srv.URL)}, &a, quietLogger())
	require.NoError(t, c.Load(context.Background()))

	c.Delete(context.Background(), "p1")

	assert.EqualValues(t, 1, deletes.Load())
	assert.Equal(t, "/products/p1", deletedPath.Load())
	records := c.Store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "p2", records[0].ID)
}

func TestProductsAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/getProducts":
			_, _ = w.Write([]byte(`[]`))
		case "/createProduct":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"_id":"p9","name":"Box","price":2,"category":"Undefined"}`))
		}
	}))
	defer srv.Close()

	var a alerts
	c := NewProductsController(ProductsAPI{client.New(srv.URL)}, &a, quietLogger())
	require.NoError(t, c.Load(context.Background()))

	c.Add()
	require.NoError(t, c.Form.Set("name", "Box"))
	require.NoError(t, c.Form.Set("price", "2"))
	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, alerts{"Product is added."}, a)
	assert.Equal(t, "p9", c.Store.Records()[0].ID)
}
