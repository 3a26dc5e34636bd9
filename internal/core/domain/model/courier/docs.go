// Package courier provides the domain model of the courier directory.
// It implements the Courier aggregate root with verification, availability,
// concurrent-delivery capacity and the rating aggregate.
//
// Key business rules:
//   - couriers register pending and unavailable; an admin approves or
//     rejects them, and only approved couriers go online
//   - eligibility to accept a delivery requires approval, availability,
//     spare capacity and a service radius covering the pickup point
//   - Reserve and Release keep the active-delivery count in lockstep with
//     delivery assignments
//   - the rating is kept as an integer sum and count, so the average never
//     accumulates float drift and can be fully recomputed from the review
//     table at any time
package courier
