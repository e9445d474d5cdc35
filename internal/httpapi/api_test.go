package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapdeck-labs/tapdeck/internal/cache"
	"github.com/tapdeck-labs/tapdeck/internal/state"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

type stubLocks map[string]bool

func (s stubLocks) Locked(workspaceID string) bool { return s[workspaceID] }

func newTestServer(t *testing.T, locks core.LockPolicy) (*httptest.Server, core.Store) {
	t.Helper()

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	responseCache := cache.New()
	store.SetInvalidator(responseCache)

	r := chi.NewMux()
	NewAPI(store, responseCache, locks).Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createWorkspace(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workspaces", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ws core.Workspace
	decodeInto(t, resp, &ws)
	require.NotEmpty(t, ws.ID)
	return ws.ID
}

func TestWorkspaceLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	id := createWorkspace(t, srv, "my profiles")

	resp, err := http.Get(srv.URL + "/api/workspaces/" + id)
	require.NoError(t, err)
	var ws core.Workspace
	decodeInto(t, resp, &ws)
	assert.Equal(t, "my profiles", ws.Name)

	// Seeded default namespaces come with the workspace.
	resp, err = http.Get(srv.URL + "/api/workspaces/" + id + "/namespaces")
	require.NoError(t, err)
	var namespaces []*core.Namespace
	decodeInto(t, resp, &namespaces)
	assert.NotEmpty(t, namespaces)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/workspaces/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/workspaces/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRowWritesRefreshValidation(t *testing.T) {
	srv, store := newTestServer(t, nil)
	id := createWorkspace(t, srv, "test")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/shapes", `{"shapeId":"Person"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/shapes/Person/rows",
		`{"propertyId":"dcterms:creator","valueShape":"Ghost"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	rows, err := store.ListRows(id, "Person")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].HasErrors, "dangling reference flagged on write")

	// Creating the referenced shape and rewriting the row clears it.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/shapes", `{"shapeId":"Ghost"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, err := json.Marshal(rows[0])
	require.NoError(t, err)
	resp = doJSON(t, http.MethodPut,
		srv.URL+"/api/workspaces/"+id+"/shapes/Person/rows/"+strconv.FormatInt(rows[0].ID, 10),
		string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	rows, err = store.ListRows(id, "Person")
	require.NoError(t, err)
	assert.False(t, rows[0].HasErrors)
}

func TestLockGuard(t *testing.T) {
	locks := stubLocks{}
	srv, _ := newTestServer(t, locks)
	id := createWorkspace(t, srv, "test")

	locks[id] = true

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/shapes", `{"shapeId":"Person"}`)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()

	// Reads still pass.
	resp, err := http.Get(srv.URL + "/api/workspaces/" + id + "/shapes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	locks[id] = false
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/shapes", `{"shapeId":"Person"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestCopyShape_LockedTarget(t *testing.T) {
	locks := stubLocks{}
	srv, _ := newTestServer(t, locks)
	src := createWorkspace(t, srv, "source")
	dst := createWorkspace(t, srv, "target")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+src+"/shapes", `{"shapeId":"Person"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	locks[dst] = true
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+src+"/shapes/Person/copy",
		`{"targetWorkspaceId":"`+dst+`"}`)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()

	locks[dst] = false
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+src+"/shapes/Person/copy",
		`{"targetWorkspaceId":"`+dst+`"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestImportCSVAndExport(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	csv := "shapeID,propertyID,propertyLabel\nPerson,dcterms:title,Title\n,dcterms:description,Description\n"
	resp, err := http.Post(srv.URL+"/api/import/csv?name=csv+test", "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Success     bool   `json:"success"`
		WorkspaceID string `json:"workspaceId"`
		RowsCreated int    `json:"rowsCreated"`
	}
	decodeInto(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RowsCreated)

	resp, err = http.Get(srv.URL + "/api/workspaces/" + result.WorkspaceID + "/export/csv")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(out), "Person")
	assert.Contains(t, string(out), "dcterms:title")

	// A second fetch serves the cached response byte for byte.
	resp, err = http.Get(srv.URL + "/api/workspaces/" + result.WorkspaceID + "/export/csv")
	require.NoError(t, err)
	cached, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, out, cached)
}

func TestImportCSV_EmptyBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/import/csv", "text/csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestExportStartingPoints_NoContent(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createWorkspace(t, srv, "test")

	resp, err := http.Get(srv.URL + "/api/workspaces/" + id + "/export/startingpoints")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestStartingPointsImportExport(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := createWorkspace(t, srv, "test")

	body := `[{"configType":"startingPoints","json":[
		{"menuGroup":"Monographs","menuItems":[
			{"label":"Work","type":["http://t/Work"],"useResourceTemplates":["rt:work"]}
		]}
	]}]`
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workspaces/"+id+"/import/startingpoints", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/workspaces/" + id + "/export/startingpoints")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []map[string]any
	decodeInto(t, resp, &docs)
	require.Len(t, docs, 1, "starting points export is a single-element array")
}

func TestImportMarva_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/import/marva", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
