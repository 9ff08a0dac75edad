package httpapi

import (
	"net/http"

	"github.com/example/gmao/internal/ports/primary"
)

type technicianRequest struct {
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (s *Server) listTechnicians(w http.ResponseWriter, r *http.Request) {
	techs, err := s.svc.Technicians.ListTechnicians(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, techs)
}

func (s *Server) createTechnician(w http.ResponseWriter, r *http.Request) {
	var body technicianRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.svc.Technicians.CreateTechnician(r.Context(), primary.CreateTechnicianRequest{
		FullName:  body.FullName,
		Specialty: body.Specialty,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Technician)
}

func (s *Server) getTechnician(w http.ResponseWriter, r *http.Request) {
	tech, err := s.svc.Technicians.GetTechnician(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

func (s *Server) setAvailability(w http.ResponseWriter, r *http.Request) {
	var body availabilityRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}

	tech, err := s.svc.Technicians.SetAvailability(r.Context(), pathID(r), *body.Available)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

func (s *Server) deleteTechnician(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Technicians.DeleteTechnician(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": pathID(r)})
}
