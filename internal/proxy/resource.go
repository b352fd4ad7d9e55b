// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package proxy

// Resource describes one backend collection the engine proxies. Adding a
// resource is a table entry, not a handler.
type Resource struct {
	// Name is the collection name, used as the inbound mount segment and
	// in logs and metrics.
	Name string

	// BasePath is the backend collection path, e.g. "/api/vehicles".
	BasePath string

	// KeyParam is the URL parameter naming a single item, e.g. "alias".
	KeyParam string

	// AllowedQuery lists the filter keys forwarded to the backend. Keys
	// not listed are dropped silently.
	AllowedQuery []string

	// RequiredOnCreate lists payload fields that must be present and
	// non-empty on POST before the call is dispatched.
	RequiredOnCreate []string

	// DefaultError substitutes for upstream error bodies that carry no
	// usable message.
	DefaultError string
}

// The proxied fleet collections. Vehicles are keyed by alias; the other
// collections are keyed by backend-assigned ID.
var (
	Vehicles = Resource{
		Name:             "vehicles",
		BasePath:         "/api/vehicles",
		KeyParam:         "alias",
		AllowedQuery:     []string{"includeInactive", "isActive"},
		RequiredOnCreate: []string{"alias", "make", "model", "plate"},
		DefaultError:     "vehicle request failed",
	}

	Routes = Resource{
		Name:         "routes",
		BasePath:     "/api/routes",
		KeyParam:     "id",
		AllowedQuery: []string{"vehicleAlias", "startDate", "endDate", "isActive"},
		DefaultError: "route request failed",
	}

	Refuels = Resource{
		Name:         "refuels",
		BasePath:     "/api/refuels",
		KeyParam:     "id",
		AllowedQuery: []string{"vehicleAlias", "startDate", "endDate", "isActive"},
		DefaultError: "refuel request failed",
	}

	Maintenance = Resource{
		Name:         "maintenance",
		BasePath:     "/api/maintenance",
		KeyParam:     "id",
		AllowedQuery: []string{"vehicleAlias", "tipo", "startDate", "endDate", "isActive"},
		DefaultError: "maintenance request failed",
	}

	Expenses = Resource{
		Name:         "expenses",
		BasePath:     "/api/expenses",
		KeyParam:     "id",
		AllowedQuery: []string{"vehicleAlias", "categoria", "startDate", "endDate", "esDeducibleImpuestos", "isActive"},
		DefaultError: "expense request failed",
	}

	Users = Resource{
		Name:         "users",
		BasePath:     "/api/users",
		KeyParam:     "id",
		AllowedQuery: []string{"includeInactive", "isActive"},
		DefaultError: "user request failed",
	}
)

// Table returns every proxied resource in mount order.
func Table() []Resource {
	return []Resource{Vehicles, Routes, Refuels, Maintenance, Expenses, Users}
}
