package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

func (a *API) listShapes(w http.ResponseWriter, r *http.Request) {
	shapes, err := a.store.ListShapes(chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if shapes == nil {
		shapes = []*core.Shape{}
	}
	writeJSON(w, http.StatusOK, shapes)
}

func (a *API) createShape(w http.ResponseWriter, r *http.Request) {
	var shape core.Shape
	if !decodeBody(w, r, &shape) {
		return
	}
	if shape.ShapeID == "" {
		writeError(w, http.StatusBadRequest, "shapeId is required")
		return
	}

	created, err := a.store.CreateShape(chi.URLParam(r, "workspaceID"), &shape)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getShape(w http.ResponseWriter, r *http.Request) {
	shape, err := a.store.GetShape(chi.URLParam(r, "workspaceID"), chi.URLParam(r, "shapeID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shape)
}

func (a *API) deleteShape(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")

	deleted, err := a.store.DeleteShape(workspaceID, chi.URLParam(r, "shapeID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "shape not found")
		return
	}

	// A removed shape can orphan references from any other shape.
	if err := a.validator.RefreshWorkspace(workspaceID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// copyShape copies a shape into another workspace. The copy overwrites
// any existing shape with the same id in the target.
func (a *API) copyShape(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetWorkspaceID string `json:"targetWorkspaceId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.TargetWorkspaceID == "" {
		writeError(w, http.StatusBadRequest, "targetWorkspaceId is required")
		return
	}
	if a.locks != nil && a.locks.Locked(body.TargetWorkspaceID) {
		writeError(w, http.StatusLocked, "target workspace is locked")
		return
	}

	err := a.workspaces.CopyShape(
		chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "shapeID"),
		body.TargetWorkspaceID,
	)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) validateShape(w http.ResponseWriter, r *http.Request) {
	found, err := a.validator.Shape(chi.URLParam(r, "workspaceID"), chi.URLParam(r, "shapeID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (a *API) listRows(w http.ResponseWriter, r *http.Request) {
	rows, err := a.store.ListRows(chi.URLParam(r, "workspaceID"), chi.URLParam(r, "shapeID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if rows == nil {
		rows = []*core.StatementRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) createRow(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")
	shapeID := chi.URLParam(r, "shapeID")

	var row core.StatementRow
	if !decodeBody(w, r, &row) {
		return
	}

	created, err := a.store.CreateRow(workspaceID, shapeID, &row)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := a.validator.RefreshShape(workspaceID, shapeID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) updateRow(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")
	shapeID := chi.URLParam(r, "shapeID")

	rowID, err := strconv.ParseInt(chi.URLParam(r, "rowID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row id")
		return
	}

	var row core.StatementRow
	if !decodeBody(w, r, &row) {
		return
	}
	row.ID = rowID

	if err := a.store.UpdateRow(workspaceID, shapeID, &row); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := a.validator.RefreshShape(workspaceID, shapeID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &row)
}

func (a *API) deleteRow(w http.ResponseWriter, r *http.Request) {
	workspaceID := chi.URLParam(r, "workspaceID")
	shapeID := chi.URLParam(r, "shapeID")

	rowID, err := strconv.ParseInt(chi.URLParam(r, "rowID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row id")
		return
	}

	if err := a.store.DeleteRow(workspaceID, shapeID, rowID); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := a.validator.RefreshShape(workspaceID, shapeID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
