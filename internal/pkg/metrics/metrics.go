// Package metrics defines and registers the custom Prometheus metrics of the
// car-rental API. Metrics are registered with the default registry on import
// through promauto; HTTP request metrics come from the echoprometheus
// middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "car_rental"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - op: "register" or "login"
//   - result: "success", "conflict", "unknown_user", "bad_password"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// AccessDecisionsTotal counts authorization middleware decisions.
// Label:
//   - result: "allowed", "unauthenticated", "forbidden", "unknown_user", "error"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of authorization decisions, by result.",
	},
	[]string{"result"},
)

// ── Car metrics ───────────────────────────────────────────────────────────────

// RentalsTotal counts rent attempts.
// Label:
//   - result: "success", "conflict", "unknown_car", "error"
var RentalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_total",
		Help:      "Total number of rent attempts, by result.",
	},
	[]string{"result"},
)

// CarCacheLookupsTotal counts car cache reads.
// Labels:
//   - key: "car" or "list"
//   - result: "hit", "miss", "error"
var CarCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "car_cache_lookups_total",
		Help:      "Total number of car cache lookups, by key kind and result.",
	},
	[]string{"key", "result"},
)
