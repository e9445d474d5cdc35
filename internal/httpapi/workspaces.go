package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

func (a *API) listWorkspaces(w http.ResponseWriter, _ *http.Request) {
	workspaces, err := a.store.ListWorkspaces()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if workspaces == nil {
		workspaces = []*core.Workspace{}
	}
	writeJSON(w, http.StatusOK, workspaces)
}

func (a *API) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ws, err := a.workspaces.Create(body.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (a *API) getWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := a.store.GetWorkspace(chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (a *API) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := a.workspaces.Delete(chi.URLParam(r, "workspaceID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) updateOptions(w http.ResponseWriter, r *http.Request) {
	var opts core.WorkspaceOptions
	if !decodeBody(w, r, &opts) {
		return
	}
	if err := a.store.UpdateOptions(chi.URLParam(r, "workspaceID"), opts); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (a *API) listNamespaces(w http.ResponseWriter, r *http.Request) {
	namespaces, err := a.store.ListNamespaces(chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if namespaces == nil {
		namespaces = []*core.Namespace{}
	}
	writeJSON(w, http.StatusOK, namespaces)
}

func (a *API) createNamespace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prefix string `json:"prefix"`
		URI    string `json:"uri"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Prefix == "" || body.URI == "" {
		writeError(w, http.StatusBadRequest, "prefix and uri are required")
		return
	}

	ns, err := a.store.CreateNamespace(chi.URLParam(r, "workspaceID"), body.Prefix, body.URI)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ns)
}

func (a *API) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := a.store.ListFolders(chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if folders == nil {
		folders = []*core.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (a *API) createFolder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	folder, err := a.store.CreateFolder(chi.URLParam(r, "workspaceID"), body.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}
