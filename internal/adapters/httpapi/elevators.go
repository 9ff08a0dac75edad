package httpapi

import (
	"net/http"

	"github.com/example/gmao/internal/ports/primary"
)

type elevatorRequest struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	SiteID    string `json:"site_id"`
}

type moveRequest struct {
	SiteID string `json:"site_id"`
}

type actionRequest struct {
	Action       string `json:"action"`
	TechnicianID string `json:"technician_id"`
	Comment      string `json:"comment"`
}

type commentRequest struct {
	Text         string `json:"text"`
	TechnicianID string `json:"technician_id"`
}

func (s *Server) listElevators(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	elevators, err := s.svc.Elevators.ListElevators(r.Context(), primary.ElevatorFilters{
		SiteID: q.Get("site_id"),
		State:  q.Get("state"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elevators)
}

func (s *Server) createElevator(w http.ResponseWriter, r *http.Request) {
	var body elevatorRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.svc.Elevators.CreateElevator(r.Context(), primary.CreateElevatorRequest{
		Name:      body.Name,
		Reference: body.Reference,
		SiteID:    body.SiteID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Elevator)
}

func (s *Server) getElevator(w http.ResponseWriter, r *http.Request) {
	elevator, err := s.svc.Elevators.GetElevator(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elevator)
}

func (s *Server) updateElevator(w http.ResponseWriter, r *http.Request) {
	var body elevatorRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	elevator, err := s.svc.Elevators.UpdateElevator(r.Context(), primary.UpdateElevatorRequest{
		ElevatorID: pathID(r),
		Name:       body.Name,
		Reference:  body.Reference,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elevator)
}

func (s *Server) deleteElevator(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Elevators.DeleteElevator(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": pathID(r)})
}

func (s *Server) moveElevator(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	elevator, err := s.svc.Elevators.MoveElevator(r.Context(), primary.MoveElevatorRequest{
		ElevatorID:   pathID(r),
		TargetSiteID: body.SiteID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, elevator)
}

// applyAction dispatches a lifecycle action by name.
func (s *Server) applyAction(w http.ResponseWriter, r *http.Request) {
	var body actionRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.svc.Elevators.ApplyAction(r.Context(), primary.ActionRequest{
		ElevatorID:   pathID(r),
		Action:       body.Action,
		TechnicianID: body.TechnicianID,
		Comment:      body.Comment,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"elevator": resp.Elevator, "events": resp.Events})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var body commentRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	event, err := s.svc.Elevators.AddComment(r.Context(), primary.AddCommentRequest{
		ElevatorID:   pathID(r),
		Text:         body.Text,
		TechnicianID: body.TechnicianID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Elevators.GetHistory(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) recentEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	events, err := s.svc.Elevators.ListRecentEvents(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
