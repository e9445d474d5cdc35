package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapdeck-labs/tapdeck/internal/cache"
	"github.com/tapdeck-labs/tapdeck/internal/marva"
	"github.com/tapdeck-labs/tapdeck/internal/startingpoint"
	"github.com/tapdeck-labs/tapdeck/internal/tabular"
	"github.com/tapdeck-labs/tapdeck/internal/validate"
	"github.com/tapdeck-labs/tapdeck/internal/workspace"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// API bundles the store, converters, and collaborators behind the HTTP
// handlers.
type API struct {
	store      core.Store
	workspaces *workspace.Service
	validator  *validate.Validator
	cache      *cache.Cache
	locks      core.LockPolicy

	csvImporter *tabular.Importer
	csvExporter *tabular.Exporter
	mvImporter  *marva.Importer
	mvExporter  *marva.Exporter
	spImporter  *startingpoint.Importer
	spExporter  *startingpoint.Exporter
}

// NewAPI wires up the handlers. locks may be nil, meaning nothing is ever
// locked; responseCache may be nil to disable export caching.
func NewAPI(store core.Store, responseCache *cache.Cache, locks core.LockPolicy) *API {
	workspaces := workspace.NewService(store)
	return &API{
		store:       store,
		workspaces:  workspaces,
		validator:   validate.New(store),
		cache:       responseCache,
		locks:       locks,
		csvImporter: tabular.NewImporter(store, workspaces),
		csvExporter: tabular.NewExporter(store),
		mvImporter:  marva.NewImporter(store, workspaces),
		mvExporter:  marva.NewExporter(store),
		spImporter:  startingpoint.NewImporter(store),
		spExporter:  startingpoint.NewExporter(store),
	}
}

// Routes mounts every endpoint on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/workspaces", a.listWorkspaces)
		r.Post("/workspaces", a.createWorkspace)

		r.Post("/import/csv", a.importCSV)
		r.Post("/import/marva", a.importMarva)

		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Use(a.lockGuard)

			r.Get("/", a.getWorkspace)
			r.Delete("/", a.deleteWorkspace)
			r.Put("/options", a.updateOptions)

			r.Get("/namespaces", a.listNamespaces)
			r.Post("/namespaces", a.createNamespace)
			r.Get("/folders", a.listFolders)
			r.Post("/folders", a.createFolder)

			r.Get("/shapes", a.listShapes)
			r.Post("/shapes", a.createShape)
			r.Route("/shapes/{shapeID}", func(r chi.Router) {
				r.Get("/", a.getShape)
				r.Delete("/", a.deleteShape)
				r.Post("/copy", a.copyShape)
				r.Get("/validation", a.validateShape)

				r.Get("/rows", a.listRows)
				r.Post("/rows", a.createRow)
				r.Put("/rows/{rowID}", a.updateRow)
				r.Delete("/rows/{rowID}", a.deleteRow)
			})

			r.Post("/import/startingpoints", a.importStartingPoints)
			r.Get("/export/csv", a.exportCSV)
			r.Get("/export/marva", a.exportMarva)
			r.Get("/export/startingpoints", a.exportStartingPoints)
		})
	})
}

// lockGuard rejects mutating requests against a locked workspace with
// 423 Locked. Reads always pass.
func (a *API) lockGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if a.locks != nil && a.locks.Locked(chi.URLParam(r, "workspaceID")) {
			writeError(w, http.StatusLocked, "workspace is locked")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
