package http

// Request DTOs. Field-level constraints live in validate tags; domain rules
// (rating scales, lifecycle transitions, radius checks) stay in the core
// and surface through the error mapper.

type packageRequest struct {
	Size               string `json:"size" validate:"required,oneof=small medium large"`
	WeightGrams        int    `json:"weight_grams" validate:"required,gt=0"`
	DeclaredValueCents int64  `json:"declared_value_cents" validate:"gte=0"`
	Fragile            bool   `json:"fragile"`
	Insured            bool   `json:"insured"`
}

type createDeliveryRequest struct {
	PickupStreet  string           `json:"pickup_street" validate:"required"`
	DropoffStreet string           `json:"dropoff_street" validate:"required"`
	Kind          string           `json:"kind" validate:"required,oneof=standard express priority"`
	Packages      []packageRequest `json:"packages" validate:"required,min=1,dive"`
	PromoCode     string           `json:"promo_code"`
	InstrumentRef string           `json:"instrument_ref" validate:"required"`
}

type cancelDeliveryRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type proofPointRequest struct {
	ProofPhotoURL string  `json:"proof_photo_url" validate:"required"`
	Lat           float64 `json:"lat" validate:"latitude"`
	Lon           float64 `json:"lon" validate:"longitude"`
}

type registerCourierRequest struct {
	Name            string  `json:"name" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	MaxConcurrent   int     `json:"max_concurrent" validate:"required,gt=0"`
	ServiceRadiusKm float64 `json:"service_radius_km" validate:"required,gt=0"`
	Lat             float64 `json:"lat" validate:"latitude"`
	Lon             float64 `json:"lon" validate:"longitude"`
}

type courierLocationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
	// DeliveryID ties the ping to an active delivery's tracking history.
	DeliveryID string `json:"delivery_id" validate:"omitempty,uuid"`
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type verifyCourierRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type submitReviewRequest struct {
	Stars      int    `json:"stars" validate:"required,min=1,max=5"`
	Politeness int    `json:"politeness" validate:"required,min=1,max=5"`
	Speed      int    `json:"speed" validate:"required,min=1,max=5"`
	Care       int    `json:"care" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
	Anonymous  bool   `json:"anonymous"`
}

type chatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
