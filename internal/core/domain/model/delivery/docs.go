// Package delivery provides the domain model of the delivery lifecycle.
// It implements the Delivery aggregate root together with its value objects
// and enforces every lifecycle rule inside the aggregate boundary.
//
// The package includes:
//   - Delivery: the aggregate root owning packages, quote, payment state and
//     the append-only tracking history
//   - Status: a strictly ordered state machine for the delivery lifecycle
//   - Quote: the itemized, immutable price breakdown locked in at creation
//   - Package: a physical parcel with size, weight and insurance attributes
//   - Address: a geocoded pickup or dropoff location
//   - TrackingRecord: one append-only entry of the delivery history
//
// Key business rules:
//   - the status advances Requested -> CourierAssigned -> PickedUp ->
//     Delivered, with Cancelled and Failed as terminal side exits
//   - exactly one courier wins the acceptance race; losers get a conflict
//   - pickup and delivery each require a proof photo from the assigned
//     courier
//   - a courier reference exists iff the delivery is assigned, picked up or
//     delivered
//   - a paid delivery is never charged again
//
// The package follows Domain-Driven Design principles: private fields,
// factory constructors and validated transitions keep every Delivery
// instance consistent by construction.
package delivery
