package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/gmao/internal/ports/primary"
)

// TechnicianAdapter translates CLI operations to TechnicianService calls.
type TechnicianAdapter struct {
	service primary.TechnicianService
	out     io.Writer
}

// NewTechnicianAdapter creates a new TechnicianAdapter.
func NewTechnicianAdapter(service primary.TechnicianService, out io.Writer) *TechnicianAdapter {
	return &TechnicianAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new technician.
func (a *TechnicianAdapter) Create(ctx context.Context, fullName, specialty string) (*primary.Technician, error) {
	resp, err := a.service.CreateTechnician(ctx, primary.CreateTechnicianRequest{
		FullName:  fullName,
		Specialty: specialty,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created technician %s: %s\n", resp.TechnicianID, resp.Technician.FullName)
	return resp.Technician, nil
}

// List lists all technicians, or those covering siteID when set.
func (a *TechnicianAdapter) List(ctx context.Context, siteID string) ([]*primary.Technician, error) {
	var (
		techs []*primary.Technician
		err   error
	)
	if siteID != "" {
		techs, err = a.service.ListSiteTechnicians(ctx, siteID)
	} else {
		techs, err = a.service.ListTechnicians(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	if len(techs) == 0 {
		fmt.Fprintln(a.out, "No technicians found.")
		return techs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tAVAILABLE")
	fmt.Fprintln(w, "--\t----\t---------\t---------")
	for _, t := range techs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.FullName, t.Specialty, availability(t.Available))
	}
	w.Flush()

	return techs, nil
}

func availability(available bool) string {
	if available {
		return green.Sprint("yes")
	}
	return red.Sprint("no")
}

// Show displays a technician.
func (a *TechnicianAdapter) Show(ctx context.Context, technicianID string) (*primary.Technician, error) {
	tech, err := a.service.GetTechnician(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	fmt.Fprintf(a.out, "\nTechnician: %s\n", bold.Sprint(tech.ID))
	fmt.Fprintf(a.out, "Name:      %s\n", tech.FullName)
	fmt.Fprintf(a.out, "Specialty: %s\n", tech.Specialty)
	fmt.Fprintf(a.out, "Available: %s\n", availability(tech.Available))
	fmt.Fprintln(a.out)

	return tech, nil
}

// SetAvailability flags a technician as available or not.
func (a *TechnicianAdapter) SetAvailability(ctx context.Context, technicianID string, available bool) (*primary.Technician, error) {
	tech, err := a.service.SetAvailability(ctx, technicianID, available)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Technician %s available: %s\n", tech.ID, availability(tech.Available))
	return tech, nil
}

// Delete removes a technician.
func (a *TechnicianAdapter) Delete(ctx context.Context, technicianID string) error {
	if err := a.service.DeleteTechnician(ctx, technicianID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Technician %s deleted\n", technicianID)
	return nil
}

// AssignToSite links a technician to a site.
func (a *TechnicianAdapter) AssignToSite(ctx context.Context, technicianID, siteID string) error {
	if err := a.service.AssignToSite(ctx, technicianID, siteID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Technician %s now covers site %s\n", technicianID, siteID)
	return nil
}

// UnassignFromSite removes the link between a technician and a site.
func (a *TechnicianAdapter) UnassignFromSite(ctx context.Context, technicianID, siteID string) error {
	if err := a.service.UnassignFromSite(ctx, technicianID, siteID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Technician %s no longer covers site %s\n", technicianID, siteID)
	return nil
}
