package http

import (
	"time"

	"dropmarket/internal/core/application/usecases/queries"
)

// Response DTOs and their converters from the query read models.

type quoteResponse struct {
	BaseCents              int64   `json:"base_cents"`
	DistanceCents          int64   `json:"distance_cents"`
	PackageFeeCents        int64   `json:"package_fee_cents"`
	PrioritySurchargeCents int64   `json:"priority_surcharge_cents"`
	InsuranceCents         int64   `json:"insurance_cents"`
	DiscountCents          int64   `json:"discount_cents"`
	TotalCents             int64   `json:"total_cents"`
	Currency               string  `json:"currency"`
	SurgeBasisPoints       int64   `json:"surge_basis_points"`
	DistanceKm             float64 `json:"distance_km"`
	DurationMin            int     `json:"duration_min"`
	Degraded               bool    `json:"degraded"`
	PromoCode              string  `json:"promo_code,omitempty"`
}

type deliveryResponse struct {
	ID               string        `json:"id"`
	Number           string        `json:"number"`
	SenderID         string        `json:"sender_id"`
	PickupStreet     string        `json:"pickup_street"`
	DropoffStreet    string        `json:"dropoff_street"`
	Kind             string        `json:"kind"`
	Status           string        `json:"status"`
	PaymentStatus    string        `json:"payment_status"`
	CourierID        string        `json:"courier_id,omitempty"`
	Quote            quoteResponse `json:"quote"`
	OfferExpiresAt   time.Time     `json:"offer_expires_at"`
	RebroadcastCount int           `json:"rebroadcast_count"`
	PickupProofURL   string        `json:"pickup_proof_url,omitempty"`
	DeliveryProofURL string        `json:"delivery_proof_url,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func deliveryResponseFrom(view queries.GetDeliveryQueryResponse) deliveryResponse {
	response := deliveryResponse{
		ID:            view.ID.String(),
		Number:        view.Number,
		SenderID:      view.SenderID.String(),
		PickupStreet:  view.PickupStreet,
		DropoffStreet: view.DropoffStreet,
		Kind:          view.Kind,
		Status:        view.Status,
		PaymentStatus: view.PaymentStatus,
		Quote: quoteResponse{
			BaseCents:              view.Quote.BaseCents,
			DistanceCents:          view.Quote.DistanceCents,
			PackageFeeCents:        view.Quote.PackageFeeCents,
			PrioritySurchargeCents: view.Quote.PrioritySurchargeCents,
			InsuranceCents:         view.Quote.InsuranceCents,
			DiscountCents:          view.Quote.DiscountCents,
			TotalCents:             view.Quote.TotalCents,
			Currency:               view.Quote.Currency,
			SurgeBasisPoints:       view.Quote.SurgeBasisPoints,
			DistanceKm:             view.Quote.DistanceKm,
			DurationMin:            view.Quote.DurationMin,
			Degraded:               view.Quote.Degraded,
			PromoCode:              view.Quote.PromoCode,
		},
		OfferExpiresAt:   view.OfferExpiresAt,
		RebroadcastCount: view.RebroadcastCount,
		PickupProofURL:   view.PickupProofURL,
		DeliveryProofURL: view.DeliveryProofURL,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}

	if view.CourierID != nil {
		response.CourierID = view.CourierID.String()
	}

	return response
}

type trackingRecordResponse struct {
	Seq        int       `json:"seq"`
	Status     string    `json:"status"`
	Lat        *float64  `json:"lat,omitempty"`
	Lon        *float64  `json:"lon,omitempty"`
	Milestone  bool      `json:"milestone"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func trackingResponseFrom(views []queries.GetDeliveryTrackingQueryResponse) []trackingRecordResponse {
	response := make([]trackingRecordResponse, len(views))
	for i, view := range views {
		response[i] = trackingRecordResponse{
			Seq:        view.Seq,
			Status:     view.Status,
			Lat:        view.Latitude,
			Lon:        view.Longitude,
			Milestone:  view.Milestone,
			Note:       view.Note,
			RecordedAt: view.RecordedAt,
		}
	}

	return response
}

type openDeliveryResponse struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	PickupStreet   string    `json:"pickup_street"`
	PickupLat      float64   `json:"pickup_lat"`
	PickupLon      float64   `json:"pickup_lon"`
	DropoffStreet  string    `json:"dropoff_street"`
	Kind           string    `json:"kind"`
	DistanceKm     float64   `json:"distance_km"`
	TotalCents     int64     `json:"total_cents"`
	Currency       string    `json:"currency"`
	OfferExpiresAt time.Time `json:"offer_expires_at"`
}

func openDeliveriesResponseFrom(views []queries.ListOpenDeliveriesQueryResponse) []openDeliveryResponse {
	response := make([]openDeliveryResponse, len(views))
	for i, view := range views {
		response[i] = openDeliveryResponse{
			ID:             view.ID.String(),
			Number:         view.Number,
			PickupStreet:   view.PickupStreet,
			PickupLat:      view.PickupLat,
			PickupLon:      view.PickupLon,
			DropoffStreet:  view.DropoffStreet,
			Kind:           view.Kind,
			DistanceKm:     view.DistanceKm,
			TotalCents:     view.TotalCents,
			Currency:       view.Currency,
			OfferExpiresAt: view.OfferExpiresAt,
		}
	}

	return response
}

type courierResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Verification    string  `json:"verification"`
	Available       bool    `json:"available"`
	ServiceRadiusKm float64 `json:"service_radius_km"`
	AverageRating   float64 `json:"average_rating"`
	RatingCount     int64   `json:"rating_count"`
	CompletedCount  int64   `json:"completed_count"`
}

func courierResponseFrom(view queries.GetCourierQueryResponse) courierResponse {
	return courierResponse{
		ID:              view.ID.String(),
		Name:            view.Name,
		Verification:    view.Verification,
		Available:       view.Available,
		ServiceRadiusKm: view.ServiceRadiusKm,
		AverageRating:   view.AverageRating,
		RatingCount:     view.RatingCount,
		CompletedCount:  view.CompletedCount,
	}
}

type createdResponse struct {
	ID string `json:"id"`
}

type storedPhotoResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}
