package app

import (
	"context"
	"io"

	"tableflip.dev/helpdesk/pkg/export"
	"tableflip.dev/helpdesk/pkg/metrics"
)

// AgentMetrics computes per-agent workload for every active agent plus the
// unassigned bucket.
func (s *Service) AgentMetrics(ctx context.Context) ([]metrics.AgentMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return metrics.Agents(s.agents, s.tickets), nil
}

// ClientMetrics counts the tickets of one client by status.
func (s *Service) ClientMetrics(ctx context.Context, email string) (metrics.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return metrics.Counts{}, err
	}
	return metrics.Client(email, s.tickets), nil
}

// ExportCSV writes the tickets matching f as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f Filter) error {
	tickets, err := s.Tickets(ctx, f)
	if err != nil {
		return err
	}
	return export.CSV(w, tickets)
}
