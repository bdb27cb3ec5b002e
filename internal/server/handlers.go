package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/scene"
	"github.com/CORaleigh/NextCenturyCities/pkg/scene2d"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if s.source == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "no data source configured")
		return
	}
	k := s.sampleSize
	if req.SampleSize != nil {
		k = *req.SampleSize
	}
	where := s.where
	if req.Where != "" {
		where = req.Where
	}

	// Query before taking the lock; only the load itself must be atomic.
	records, err := s.source.Query(r.Context(), where, s.fields, true)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("querying buildings: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Load(records, k); err != nil {
		s.writeError(w, r, err)
		return
	}
	loggerFrom(r.Context()).Info("scenario loaded", "records", len(records), "sampled", k)

	entries := s.buildings()
	RespondWithJSON(w, http.StatusOK, LoadResponse{
		Buildings: len(entries),
		Totals:    s.store.ScenarioTotals(),
		Entries:   entries,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.ResetAll()
	RespondWithJSON(w, http.StatusOK, s.report())
}

func (s *Server) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	RespondWithJSON(w, http.StatusOK, s.buildings())
}

func (s *Server) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	id := buildingID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.SelectByID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	edit, err := s.store.Stack(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.editResponse(edit))
}

func (s *Server) handleUpdateAttribute(w http.ResponseWriter, r *http.Request) {
	var req attributeRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Value == nil {
		WriteJSONError(w, http.StatusBadRequest, "value is required")
		return
	}
	field, err := building.ParseField(req.Field)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	value := *req.Value
	switch strings.ToLower(req.Unit) {
	case "", "m":
	case "ft":
		if field == building.FieldWidth || field == building.FieldDepth {
			value = units.ToMeters(value)
		}
	default:
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown unit %q", req.Unit))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edit, err := s.store.UpdateAttribute(buildingID(r), field, value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.editResponse(edit))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req offsetRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edit, err := s.store.Translate(buildingID(r), req.DX, req.DY)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.editResponse(edit))
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	id := buildingID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, restored, err := s.store.RevertToOriginal(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !restored {
		RespondWithJSON(w, http.StatusOK, OriginalResponse{Exists: false})
		return
	}
	b := newBuildingResponse(entry, false)
	RespondWithJSON(w, http.StatusOK, OriginalResponse{Exists: true, Building: &b, Report: entry.Report})
}

func (s *Server) handleStack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edit, err := s.store.Stack(buildingID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.editResponse(edit))
}

func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	id := buildingID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Entry(id); !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", scenario.ErrUnknownBuildingID, id))
		return
	}
	orig, ok := s.store.Original(id)
	if !ok {
		RespondWithJSON(w, http.StatusOK, OriginalResponse{Exists: false})
		return
	}
	b := newBuildingResponse(orig, false)
	RespondWithJSON(w, http.StatusOK, OriginalResponse{Exists: true, Building: &b, Report: orig.Report})
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.X == nil || req.Y == nil {
		WriteJSONError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.store.SelectByLocation(*req.X, *req.Y)
	switch {
	case errors.Is(err, scenario.ErrNoBuildingHere):
		loc, _ := s.store.PendingLocation()
		RespondWithJSON(w, http.StatusOK, PickResponse{
			Hit:     false,
			Pending: &loc,
			Marker:  massing.GroundMarker(loc.X, loc.Y),
		})
	case err != nil:
		s.writeError(w, r, err)
	default:
		b := newBuildingResponse(e, s.store.IsChanged(e.ID))
		RespondWithJSON(w, http.StatusOK, PickResponse{
			Hit:      true,
			Building: &b,
			Marker:   massing.MarkerFor(e.Attributes, e.Location),
		})
	}
}

func (s *Server) handleCreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edit, err := s.store.CreateBuilding(strings.TrimSpace(req.Name))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loggerFrom(r.Context()).Info("building created", "id", edit.Entry.ID)
	RespondWithJSON(w, http.StatusCreated, s.editResponse(edit))
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.store.StartDrag(building.ID(req.ID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newBuildingResponse(e, s.store.IsChanged(e.ID)))
}

func (s *Server) handleDragUpdate(w http.ResponseWriter, r *http.Request) {
	var req offsetRequest
	if err := decode(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	preview, ok, err := s.store.UpdateDrag(req.DX, req.DY)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := DragUpdateResponse{Accepted: ok}
	if ok {
		resp.Preview = &preview
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edit, err := s.store.EndDrag()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.editResponse(edit))
}

func (s *Server) handleDragAbort(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.AbortDrag()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	RespondWithJSON(w, http.StatusOK, s.report())
}

func (s *Server) report() ReportResponse {
	summary := s.store.Summary()
	return ReportResponse{
		Summary:    summary,
		Formatted:  formatComparison(summary.Comparison),
		MaxStories: max(s.store.MaxStories(), 0),
	}
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.store.Changes()
	RespondWithJSON(w, http.StatusOK, ChangesResponse{Count: len(ids), IDs: ids})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.scene()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, g)
}

func (s *Server) handleSceneValidation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.scene()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, scene.ValidateGraph(g))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := scene2d.Input{
		Entries: s.store.Entries(),
		Changed: s.store.IsChanged,
	}
	if sel, ok := s.store.Selection(); ok {
		in.Selected = sel.ID
	}
	if loc, ok := s.store.PendingLocation(); ok {
		in.Pending = &loc
	}
	RespondWithJSON(w, http.StatusOK, scene2d.Assemble2D(in))
}

// scene assembles every scenario stack plus the marker of the selection.
func (s *Server) scene() (*scene.Graph, error) {
	entries := s.store.Entries()
	stacks := make([][]massing.FloorVolume, 0, len(entries))
	for _, e := range entries {
		stack, err := massing.RegenerateStack(e.Attributes, e.Location)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", e.ID, err)
		}
		stacks = append(stacks, stack)
	}

	var marker *massing.Marker
	if sel, ok := s.store.Selection(); ok {
		m := massing.MarkerFor(sel.Attributes, sel.Location)
		marker = &m
	} else if loc, ok := s.store.PendingLocation(); ok {
		m := massing.GroundMarker(loc.X, loc.Y)
		marker = &m
	}
	return scene.Assemble(stacks, marker), nil
}

func buildingID(r *http.Request) building.ID {
	return building.ID(chi.URLParam(r, "id"))
}
