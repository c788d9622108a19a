package person

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/bolt"
	"github.com/aanand-mishra/records-api/internal/types"
)

func newMux(t *testing.T, strict bool) (*http.ServeMux, storage.Storage) {
	t.Helper()

	s, err := bolt.New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return mux(s, strict), s
}

func mux(s storage.Storage, strict bool) *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("GET /getUsers", List(s))
	m.HandleFunc("POST /createUser", New(s))
	m.HandleFunc("PUT /updateUser/{id}", Update(s))
	m.HandleFunc("DELETE /users/{id}", Delete(s, strict))
	return m
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndList(t *testing.T) {
	m, _ := newMux(t, false)

	rec := do(m, http.MethodPost, "/createUser",
		`{"_id":"mine","name":"Ann","age":30,"email":"a@b.com","date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created types.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, storage.ValidID(created.ID))
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, types.NewDate(2024, 1, 1), created.Date)

	rec = do(m, http.MethodGet, "/getUsers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var people []types.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &people))
	require.Len(t, people, 1)
	assert.Equal(t, created, people[0])
}

func TestCreateAgeAsFloat(t *testing.T) {
	m, _ := newMux(t, false)

	rec := do(m, http.MethodPost, "/createUser", `{"name":"Ann","age":30.0,"date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 30, created.Age)
}

func TestListEmpty(t *testing.T) {
	m, _ := newMux(t, false)

	rec := do(m, http.MethodGet, "/getUsers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty body", body: "", want: "request body is empty"},
		{name: "malformed", body: `{"name":`, want: "invalid JSON body"},
		{name: "wrong type", body: `{"name":"Ann","age":"thirty"}`, want: "invalid JSON body"},
		{name: "fractional age", body: `{"name":"Ann","age":30.5,"date":"2024-01-01"}`, want: "age must be a whole number"},
		{
			name: "age and name",
			body: `{"name":"","age":0,"date":"2024-01-01"}`,
			want: "Age must be higher than zero!\n\nPlease, fill in 'Name' field!",
		},
		{
			name: "email",
			body: `{"name":"Ann","age":3,"email":"nope","date":"2024-01-01"}`,
			want: "Invalid email format! Please enter a valid email address.",
		},
		{
			name: "date",
			body: `{"name":"Ann","age":3}`,
			want: "Please, fill in 'Date' field!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s := newMux(t, false)

			rec := do(m, http.MethodPost, "/createUser", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body["status"])
			assert.Contains(t, body["error"], tt.want)

			people, err := s.GetPeople(context.Background())
			require.NoError(t, err)
			assert.Empty(t, people, "nothing is stored")
		})
	}
}

func TestUpdate(t *testing.T) {
	m, s := newMux(t, false)

	ann, err := s.CreatePerson(context.Background(), types.Person{Name: "Ann", Age: 30, Email: "a@b.com", Date: types.NewDate(2024, 1, 1)})
	require.NoError(t, err)

	rec := do(m, http.MethodPut, "/updateUser/"+ann.ID, `{"name":"Anna","age":31,"date":"2024-02-02","username":"annie"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated types.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, types.Person{
		ID:       ann.ID,
		Name:     "Anna",
		Age:      31,
		Nickname: "annie",
		Date:     types.NewDate(2024, 2, 2),
	}, updated)
}

func TestUpdateNotFound(t *testing.T) {
	m, _ := newMux(t, false)

	for _, id := range []string{storage.NewID(), "42"} {
		rec := do(m, http.MethodPut, "/updateUser/"+id, `{"name":"Ann","age":30,"date":"2024-01-01"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
	}
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	m, _ := newMux(t, false)

	rec := do(m, http.MethodPut, "/updateUser/"+storage.NewID(), `{"name":"Ann","age":-1,"date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Age must be higher than zero!")
}

func TestDelete(t *testing.T) {
	m, s := newMux(t, false)
	ctx := context.Background()

	ann, err := s.CreatePerson(ctx, types.Person{Name: "Ann", Age: 30, Date: types.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	bob, err := s.CreatePerson(ctx, types.Person{Name: "Bob", Age: 40, Date: types.NewDate(2024, 1, 1)})
	require.NoError(t, err)

	rec := do(m, http.MethodDelete, "/users/"+ann.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted"}`, rec.Body.String())

	people, err := s.GetPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, bob.ID, people[0].ID)
}

func TestDeleteMissing(t *testing.T) {
	t.Run("reports success by default", func(t *testing.T) {
		m, _ := newMux(t, false)

		rec := do(m, http.MethodDelete, "/users/"+storage.NewID(), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"User deleted"}`, rec.Body.String())
	})

	t.Run("strict answers 404", func(t *testing.T) {
		m, _ := newMux(t, true)

		rec := do(m, http.MethodDelete, "/users/"+storage.NewID(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
	})
}

type failingStore struct {
	storage.Storage
}

var errDown = errors.New("database is down")

func (failingStore) GetPeople(context.Context) ([]types.Person, error) { return nil, errDown }

func (failingStore) CreatePerson(context.Context, types.Person) (types.Person, error) {
	return types.Person{}, errDown
}

func (failingStore) UpdatePersonByID(context.Context, string, types.Person) (types.Person, error) {
	return types.Person{}, errDown
}

func (failingStore) DeletePersonByID(context.Context, string) (bool, error) { return false, errDown }

func TestStoreFailure(t *testing.T) {
	m := mux(failingStore{}, false)
	want := `{"status":"error","error":"database is down","message":"database is down"}`
	valid := `{"name":"Ann","age":30,"date":"2024-01-01"}`

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/getUsers", ""},
		{http.MethodPost, "/createUser", valid},
		{http.MethodPut, "/updateUser/" + storage.NewID(), valid},
		{http.MethodDelete, "/users/" + storage.NewID(), ""},
	} {
		rec := do(m, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tc.method)
		assert.JSONEq(t, want, rec.Body.String(), tc.method)
	}
}
