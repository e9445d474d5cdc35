package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapdeck-labs/tapdeck/internal/marva"
	"github.com/tapdeck-labs/tapdeck/internal/startingpoint"
	"github.com/tapdeck-labs/tapdeck/internal/tabular"
)

// Cache keys for export responses, invalidated per workspace on every
// store mutation.
const (
	cacheKeyCSV            = "export:csv:comma"
	cacheKeyTSV            = "export:csv:tab"
	cacheKeyMarva          = "export:marva"
	cacheKeyStartingPoints = "export:startingpoints"
)

// importCSV creates a fresh workspace from a CSV or TSV body. The
// delimiter is sniffed from the content. The workspace name comes from
// the "name" query parameter.
func (a *API) importCSV(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Imported workspace"
	}

	result, err := a.csvImporter.Import(string(content), name)
	if err != nil {
		if errors.Is(err, tabular.ErrEmptyInput) || errors.Is(err, tabular.ErrMissingColumns) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// importMarva creates a fresh workspace from an array of profile
// documents.
func (a *API) importMarva(w http.ResponseWriter, r *http.Request) {
	var docs []marva.Document
	if !decodeBody(w, r, &docs) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Imported workspace"
	}

	result, err := a.mvImporter.Import(docs, name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// importStartingPoints replaces the workspace's starting-point shapes
// from a starting-points file.
func (a *API) importStartingPoints(w http.ResponseWriter, r *http.Request) {
	var docs []startingpoint.Document
	if !decodeBody(w, r, &docs) {
		return
	}

	result, err := a.spImporter.Import(chi.URLParam(r, "workspaceID"), docs)
	if err != nil {
		if errors.Is(err, startingpoint.ErrNoConfig) || errors.Is(err, startingpoint.ErrNoGroups) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// exportCSV renders the workspace as CSV, or TSV with ?delimiter=tab.
func (a *API) exportCSV(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	delim := tabular.Comma
	key := cacheKeyCSV
	contentType := "text/csv"
	if r.URL.Query().Get("delimiter") == "tab" {
		delim = tabular.Tab
		key = cacheKeyTSV
		contentType = "text/tab-separated-values"
	}

	if cached, ok := a.cached(workspaceID, key); ok {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(cached)
		return
	}

	content, err := a.csvExporter.Export(workspaceID, delim)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	a.cachePut(workspaceID, key, []byte(content))

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(content))
}

// exportMarva renders the workspace as an array of profile documents.
func (a *API) exportMarva(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	if cached, ok := a.cached(workspaceID, cacheKeyMarva); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	docs, err := a.mvExporter.Export(workspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if docs == nil {
		docs = []marva.Document{}
	}

	encoded, err := json.Marshal(docs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.cachePut(workspaceID, cacheKeyMarva, encoded)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(encoded)
}

// exportStartingPoints renders the workspace's starting-point menus as a
// single-element document array. Responds 204 when the workspace has no
// starting points; that is a valid outcome, not an error.
func (a *API) exportStartingPoints(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	if cached, ok := a.cached(workspaceID, cacheKeyStartingPoints); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	doc, err := a.spExporter.Export(workspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if doc == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	encoded, err := json.Marshal([]startingpoint.Document{*doc})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.cachePut(workspaceID, cacheKeyStartingPoints, encoded)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(encoded)
}

func (a *API) cached(workspaceID, key string) ([]byte, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(workspaceID, key)
}

func (a *API) cachePut(workspaceID, key string, value []byte) {
	if a.cache != nil {
		a.cache.Put(workspaceID, key, value)
	}
}
