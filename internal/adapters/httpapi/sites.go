package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/gmao/internal/ports/primary"
)

type siteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Category    string `json:"category"`
}

type siteTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.svc.Sites.ListSites(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) createSite(w http.ResponseWriter, r *http.Request) {
	var body siteRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	resp, err := s.svc.Sites.CreateSite(r.Context(), primary.CreateSiteRequest{
		Name:        body.Name,
		Description: body.Description,
		City:        body.City,
		Address:     body.Address,
		Category:    body.Category,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Site)
}

func (s *Server) getSite(w http.ResponseWriter, r *http.Request) {
	site, err := s.svc.Sites.GetSite(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) updateSite(w http.ResponseWriter, r *http.Request) {
	var body siteRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	site, err := s.svc.Sites.UpdateSite(r.Context(), primary.UpdateSiteRequest{
		SiteID:      pathID(r),
		Name:        body.Name,
		Description: body.Description,
		City:        body.City,
		Address:     body.Address,
		Category:    body.Category,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) deleteSite(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	if err := s.svc.Sites.DeleteSite(r.Context(), primary.DeleteSiteRequest{SiteID: pathID(r), Force: force}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": pathID(r)})
}

func (s *Server) siteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Sites.GetSiteStats(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) listSiteTechnicians(w http.ResponseWriter, r *http.Request) {
	techs, err := s.svc.Technicians.ListSiteTechnicians(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, techs)
}

func (s *Server) assignSiteTechnician(w http.ResponseWriter, r *http.Request) {
	var body siteTechnicianRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Technicians.AssignToSite(r.Context(), body.TechnicianID, pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"site_id": pathID(r), "technician_id": body.TechnicianID})
}

func (s *Server) unassignSiteTechnician(w http.ResponseWriter, r *http.Request) {
	technicianID := mux.Vars(r)["technicianId"]
	if err := s.svc.Technicians.UnassignFromSite(r.Context(), technicianID, pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"site_id": pathID(r), "technician_id": technicianID})
}
