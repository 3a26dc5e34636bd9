// Package services provides stateless domain services that operate across
// aggregates. The pricing engine lives here: it turns a route estimate, the
// packages, the service level and an optional promo code into an itemized,
// deterministic price quote without touching the network or the database.
package services
