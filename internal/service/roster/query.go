package roster

import (
	"context"
	"strings"

	"github.com/sunrisehealth/portal-api/internal/model"
)

// DefaultPageSize matches the portal's fixed list page size.
const DefaultPageSize = 5

// PatientPage is one page of the filtered roster.
type PatientPage struct {
	Items      []model.Patient `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// ListPatients returns one page of the roster, filtered by a
// case-insensitive substring match on name or member id. Out-of-range
// page requests clamp to the nearest valid page.
func (s *Service) ListPatients(_ context.Context, search string, page int) (*PatientPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := Filter(s.patients, search)
	effective, totalPages := ClampPage(page, len(filtered), s.pageSize)

	start := (effective - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]model.Patient, 0, end-start)
	for _, p := range filtered[start:end] {
		items = append(items, p.Clone())
	}

	return &PatientPage{
		Items:      items,
		Total:      len(filtered),
		Page:       effective,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
	}, nil
}

// Filter returns the patients whose name or member id contains the
// search term, ignoring case. An empty term returns the input
// unfiltered.
func Filter(patients []model.Patient, term string) []model.Patient {
	if term == "" {
		return patients
	}

	needle := strings.ToLower(term)
	filtered := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.MemberID), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ClampPage clamps a requested page into [1, totalPages] for a list of
// n items. totalPages is ceil(n/size), and at least 1 so an empty list
// still renders page 1 of 1.
func ClampPage(page, n, size int) (effective, totalPages int) {
	totalPages = (n + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}
