package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/gmao/internal/ports/primary"
)

// SiteAdapter translates CLI operations to SiteService calls.
type SiteAdapter struct {
	service     primary.SiteService
	technicians primary.TechnicianService
	out         io.Writer
}

// NewSiteAdapter creates a new SiteAdapter.
func NewSiteAdapter(service primary.SiteService, technicians primary.TechnicianService, out io.Writer) *SiteAdapter {
	return &SiteAdapter{
		service:     service,
		technicians: technicians,
		out:         out,
	}
}

// Create creates a new site.
func (a *SiteAdapter) Create(ctx context.Context, req primary.CreateSiteRequest) (*primary.Site, error) {
	resp, err := a.service.CreateSite(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created site %s: %s\n", resp.SiteID, resp.Site.Name)
	fmt.Fprintf(a.out, "  %s, %s (%s)\n", resp.Site.Address, resp.Site.City, resp.Site.Category)
	return resp.Site, nil
}

// List lists all sites.
func (a *SiteAdapter) List(ctx context.Context) ([]*primary.Site, error) {
	sites, err := a.service.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Fprintln(a.out, "No sites found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create one:")
		fmt.Fprintln(a.out, "  gmao site create \"Tour Horizon\" --city Paris --address \"12 quai\" --category tertiary")
		return sites, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tCATEGORY")
	fmt.Fprintln(w, "--\t----\t----\t--------")
	for _, s := range sites {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.City, s.Category)
	}
	w.Flush()

	return sites, nil
}

// Show displays a site with its elevator counts and covering technicians.
func (a *SiteAdapter) Show(ctx context.Context, siteID string) (*primary.Site, error) {
	site, err := a.service.GetSite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	stats, err := a.service.GetSiteStats(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get site stats: %w", err)
	}

	fmt.Fprintf(a.out, "\nSite: %s\n", bold.Sprint(site.ID))
	fmt.Fprintf(a.out, "Name:     %s\n", site.Name)
	if site.Description != "" {
		fmt.Fprintf(a.out, "About:    %s\n", site.Description)
	}
	fmt.Fprintf(a.out, "Address:  %s, %s\n", site.Address, site.City)
	fmt.Fprintf(a.out, "Category: %s\n", site.Category)
	fmt.Fprintf(a.out, "Elevators: %d (%s %d, %s %d, %s %d)\n",
		stats.Total,
		green.Sprint("functional"), stats.Functional,
		red.Sprint("faulty"), stats.Faulty,
		yellow.Sprint("under repair"), stats.UnderRepair,
	)

	if a.technicians != nil {
		techs, err := a.technicians.ListSiteTechnicians(ctx, siteID)
		if err != nil {
			return nil, fmt.Errorf("failed to list site technicians: %w", err)
		}
		if len(techs) == 0 {
			fmt.Fprintln(a.out, "Technicians: none")
		} else {
			fmt.Fprintln(a.out, "Technicians:")
			for _, t := range techs {
				fmt.Fprintf(a.out, "  - %s %s (%s)\n", t.ID, t.FullName, t.Specialty)
			}
		}
	}
	fmt.Fprintln(a.out)

	return site, nil
}

// Update replaces the details of a site.
func (a *SiteAdapter) Update(ctx context.Context, req primary.UpdateSiteRequest) (*primary.Site, error) {
	site, err := a.service.UpdateSite(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Site %s updated\n", site.ID)
	return site, nil
}

// Delete removes a site. Force also removes its elevators.
func (a *SiteAdapter) Delete(ctx context.Context, siteID string, force bool) error {
	if err := a.service.DeleteSite(ctx, primary.DeleteSiteRequest{SiteID: siteID, Force: force}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Site %s deleted\n", siteID)
	return nil
}
