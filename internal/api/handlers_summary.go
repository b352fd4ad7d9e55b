// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/envelope"
	"github.com/flotilla-app/flotilla/internal/logging"
)

// upcomingSummary is the dashboard headline counts payload.
type upcomingSummary struct {
	MaintenanceUpcoming int `json:"maintenanceUpcoming"`
	ExpensesUpcoming    int `json:"expensesUpcoming"`
}

// upcomingList matches the backend upcoming-items responses well enough to
// count them; the items themselves are not forwarded.
type upcomingList struct {
	Data  []json.RawMessage `json:"data"`
	Total *int              `json:"total"`
}

// handleUpcomingSummary fetches the upcoming-maintenance and
// upcoming-expense counts concurrently. Either fetch failing degrades that
// count to zero; the dashboard prefers stale-free partial data over an
// error page.
func (rt *Router) handleUpcomingSummary(w http.ResponseWriter, r *http.Request) {
	token := rt.sessions.Read(r)
	if token == "" {
		envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var (
		wg          sync.WaitGroup
		maintenance int
		expenses    int
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		maintenance = rt.fetchUpcomingCount(r.Context(), "/api/maintenance/upcoming", token)
	}()
	go func() {
		defer wg.Done()
		expenses = rt.fetchUpcomingCount(r.Context(), "/api/expenses/upcoming", token)
	}()
	wg.Wait()

	envelope.WriteJSON(w, http.StatusOK, upcomingSummary{
		MaintenanceUpcoming: maintenance,
		ExpensesUpcoming:    expenses,
	})
}

// fetchUpcomingCount returns the item count for one upcoming feed, or zero
// on any failure.
func (rt *Router) fetchUpcomingCount(ctx context.Context, path, token string) int {
	result, err := rt.backend.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   path,
		Token:  token,
	})
	if err != nil || result.Kind != backend.KindSuccess {
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Msg("Upcoming count fetch degraded to zero")
		return 0
	}

	var list upcomingList
	if err := json.Unmarshal(result.Body, &list); err != nil {
		return 0
	}
	if list.Total != nil {
		return *list.Total
	}
	return len(list.Data)
}
