// Package http is the inbound HTTP adapter: the REST API for senders,
// couriers and operators, plus the SSE streams couriers and senders follow
// in real time. Handlers translate requests into commands and queries;
// business rules never live here.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"dropmarket/internal/adapters/out/eventbus"
	"dropmarket/internal/core/application/usecases/commands"
	"dropmarket/internal/core/application/usecases/queries"
	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxProofPhotoBytes caps proof photo uploads.
const maxProofPhotoBytes = 10 << 20

// Handlers bundles the command and query handlers the server dispatches to.
type Handlers struct {
	CreateDelivery        commands.CreateDeliveryCommandHandler
	CancelDelivery        commands.CancelDeliveryCommandHandler
	AcceptDelivery        commands.AcceptDeliveryCommandHandler
	MarkPickedUp          commands.MarkPickedUpCommandHandler
	MarkDelivered         commands.MarkDeliveredCommandHandler
	RecordLocation        commands.RecordCourierLocationCommandHandler
	SettlePayment         commands.SettlePaymentCommandHandler
	SubmitReview          commands.SubmitReviewCommandHandler
	RegisterCourier       commands.RegisterCourierCommandHandler
	SetAvailability       commands.SetCourierAvailabilityCommandHandler
	UpdateCourierLocation commands.UpdateCourierLocationCommandHandler
	VerifyCourier         commands.VerifyCourierCommandHandler

	GetDelivery         queries.GetDeliveryQueryHandler
	GetDeliveryTracking queries.GetDeliveryTrackingQueryHandler
	ListOpenDeliveries  queries.ListOpenDeliveriesQueryHandler
	GetCourier          queries.GetCourierQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers  Handlers
	hub       *eventbus.Hub
	publisher ports.EventPublisher
	storage   ports.PhotoStorage
	metrics   Metrics
	logger    *slog.Logger
}

// NewServer creates the HTTP server. The hub feeds the SSE streams; the
// publisher carries chat messages; storage receives proof photo uploads.
func NewServer(
	handlers Handlers,
	hub *eventbus.Hub,
	publisher ports.EventPublisher,
	storage ports.PhotoStorage,
	metrics Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		handlers:  handlers,
		hub:       hub,
		publisher: publisher,
		storage:   storage,
		metrics:   metrics,
		logger:    logger.With("component", "http"),
	}
}

// RegisterRoutes wires the API onto the echo instance. Health and metrics
// stay outside authentication.
func RegisterRoutes(e *echo.Echo, server *Server, authSecret []byte) {
	e.Validator = NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", Auth(authSecret))

	deliveries := api.Group("/deliveries")
	deliveries.POST("", server.CreateDelivery, RequireRole(RoleSender))
	deliveries.GET("/:id", server.GetDelivery)
	deliveries.GET("/:id/tracking", server.GetDeliveryTracking)
	deliveries.GET("/:id/events", server.StreamDeliveryEvents)
	deliveries.POST("/:id/cancel", server.CancelDelivery, RequireRole(RoleSender))
	deliveries.POST("/:id/payment", server.SettlePayment, RequireRole(RoleSender, RoleAdmin))
	deliveries.POST("/:id/review", server.SubmitReview, RequireRole(RoleSender))
	deliveries.POST("/:id/chat", server.PostChatMessage, RequireRole(RoleSender, RoleCourier))
	deliveries.POST("/:id/accept", server.AcceptDelivery, RequireRole(RoleCourier))
	deliveries.POST("/:id/pickup", server.MarkPickedUp, RequireRole(RoleCourier))
	deliveries.POST("/:id/deliver", server.MarkDelivered, RequireRole(RoleCourier))
	deliveries.POST("/:id/proof", server.UploadProofPhoto, RequireRole(RoleCourier))

	api.POST("/couriers", server.RegisterCourier, RequireRole(RoleCourier))
	api.GET("/couriers/:id", server.GetCourier)
	api.POST("/couriers/:id/verification", server.VerifyCourier, RequireRole(RoleAdmin))

	courier := api.Group("/courier", RequireRole(RoleCourier))
	courier.GET("/feed", server.StreamCourierFeed)
	courier.GET("/open-deliveries", server.ListOpenDeliveries)
	courier.POST("/location", server.UpdateLocation)
	courier.POST("/availability", server.SetAvailability)
}

// CreateDelivery handles POST /api/v1/deliveries. The response is the
// freshly quoted delivery so the sender sees the price immediately.
func (s *Server) CreateDelivery(c echo.Context) error {
	var request createDeliveryRequest
	if err := bind(c, &request); err != nil {
		return respondError(c, err)
	}

	kind, err := delivery.KindFromString(request.Kind)
	if err != nil {
		return respondError(c, err)
	}

	packages := make([]commands.PackageSpec, len(request.Packages))
	for i, pkg := range request.Packages {
		size, sizeErr := delivery.SizeClassFromString(pkg.Size)
		if sizeErr != nil {
			return respondError(c, sizeErr)
		}

		packages[i] = commands.PackageSpec{
			Size:               size,
			WeightGrams:        pkg.WeightGrams,
			DeclaredValueCents: pkg.DeclaredValueCents,
			Fragile:            pkg.Fragile,
			Insured:            pkg.Insured,
		}
	}

	deliveryID := kernel.NewUUID()
	command, err := commands.NewCreateDeliveryCommand(
		deliveryID,
		actorID(c),
		request.PickupStreet,
		request.DropoffStreet,
		packages,
		kind,
		request.PromoCode,
		request.InstrumentRef,
		time.Now(),
	)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	if err = s.handlers.CreateDelivery.Handle(ctx, command); err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.handlers.GetDelivery.Handle(ctx, query)
	if err != nil {
		return respondError(c, err)
	}

	inc(s.metrics.DeliveriesCreated)
	return c.JSON(http.StatusCreated, deliveryResponseFrom(view))
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.handlers.GetDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, deliveryResponseFrom(view))
}

// GetDeliveryTracking handles GET /api/v1/deliveries/:id/tracking.
func (s *Server) GetDeliveryTracking(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetDeliveryTrackingQuery(deliveryID)
	if err != nil {
		return respondError(c, err)
	}

	views, err := s.handlers.GetDeliveryTracking.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, trackingResponseFrom(views))
}

// CancelDelivery handles POST /api/v1/deliveries/:id/cancel.
func (s *Server) CancelDelivery(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request cancelDeliveryRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewCancelDeliveryCommand(deliveryID, actorID(c), request.Reason)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.CancelDelivery.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SettlePayment handles POST /api/v1/deliveries/:id/payment.
func (s *Server) SettlePayment(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewSettlePaymentCommand(deliveryID)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.SettlePayment.Handle(c.Request().Context(), command); err != nil {
		var decline *ports.DeclineError
		switch {
		case errors.As(err, &decline):
			s.metrics.settlement("declined")
		case errors.Is(err, errs.ErrConflict):
			s.metrics.settlement("conflict")
		default:
			s.metrics.settlement("error")
		}

		return respondError(c, err)
	}

	s.metrics.settlement("settled")
	return c.NoContent(http.StatusNoContent)
}

// SubmitReview handles POST /api/v1/deliveries/:id/review.
func (s *Server) SubmitReview(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request submitReviewRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	reviewID := kernel.NewUUID()
	command, err := commands.NewSubmitReviewCommand(
		reviewID,
		deliveryID,
		actorID(c),
		request.Stars,
		review.CategoryRatings{
			Politeness: request.Politeness,
			Speed:      request.Speed,
			Care:       request.Care,
		},
		request.Comment,
		request.Anonymous,
	)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.SubmitReview.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: reviewID.String()})
}

// AcceptDelivery handles POST /api/v1/deliveries/:id/accept. First eligible
// courier to land here wins the offer.
func (s *Server) AcceptDelivery(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewAcceptDeliveryCommand(deliveryID, actorID(c))
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.AcceptDelivery.Handle(c.Request().Context(), command); err != nil {
		var ineligible *commands.IneligibleError
		switch {
		case errors.As(err, &ineligible):
			inc(s.metrics.IneligibleAccepts)
		case errors.Is(err, errs.ErrConflict):
			inc(s.metrics.AssignmentConflicts)
		}

		return respondError(c, err)
	}

	inc(s.metrics.AssignmentWins)
	return c.NoContent(http.StatusNoContent)
}

// MarkPickedUp handles POST /api/v1/deliveries/:id/pickup.
func (s *Server) MarkPickedUp(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request proofPointRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	point, err := kernel.NewGeoPoint(request.Lat, request.Lon)
	if err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewMarkPickedUpCommand(deliveryID, actorID(c), request.ProofPhotoURL, point)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.MarkPickedUp.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkDelivered handles POST /api/v1/deliveries/:id/deliver.
func (s *Server) MarkDelivered(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request proofPointRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	point, err := kernel.NewGeoPoint(request.Lat, request.Lon)
	if err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewMarkDeliveredCommand(deliveryID, actorID(c), request.ProofPhotoURL, point)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.MarkDelivered.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadProofPhoto handles POST /api/v1/deliveries/:id/proof: a multipart
// upload whose stored URL the courier then attaches to pickup or deliver.
func (s *Server) UploadProofPhoto(c echo.Context) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return respondError(c, errs.NewValueIsRequiredError("photo"))
	}
	if fileHeader.Size > maxProofPhotoBytes {
		return respondError(c, errs.NewValueIsOutOfRangeError("photo size", fileHeader.Size, 1, maxProofPhotoBytes))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("photo", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofPhotoBytes))
	if err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("photo", err))
	}

	photo, err := s.storage.Store(c.Request().Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, storedPhotoResponse{
		URL:          photo.URL,
		ThumbnailURL: photo.ThumbnailURL,
	})
}

// PostChatMessage handles POST /api/v1/deliveries/:id/chat. Messages are
// broadcast to the delivery's stream and not persisted.
func (s *Server) PostChatMessage(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request chatMessageRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	event := ports.Event{
		Name:  ports.EventChatMessage,
		Topic: ports.DeliveryTopic(deliveryID.String()),
		At:    time.Now(),
		Data: map[string]any{
			"delivery_id": deliveryID.String(),
			"from":        actorID(c).String(),
			"role":        actorRole(c),
			"message":     request.Message,
		},
	}

	if err = s.publisher.Publish(c.Request().Context(), event); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// RegisterCourier handles POST /api/v1/couriers. The courier's aggregate ID
// is the token subject, so later accepts resolve to the same identity.
func (s *Server) RegisterCourier(c echo.Context) error {
	var request registerCourierRequest
	if err := bind(c, &request); err != nil {
		return respondError(c, err)
	}

	location, err := kernel.NewGeoPoint(request.Lat, request.Lon)
	if err != nil {
		return respondError(c, err)
	}

	courierID := actorID(c)
	command, err := commands.NewRegisterCourierCommand(
		courierID,
		request.Name,
		request.Phone,
		request.MaxConcurrent,
		request.ServiceRadiusKm,
		location,
	)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.RegisterCourier.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: courierID.String()})
}

// GetCourier handles GET /api/v1/couriers/:id.
func (s *Server) GetCourier(c echo.Context) error {
	courierID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetCourierQuery(courierID)
	if err != nil {
		return respondError(c, err)
	}

	view, err := s.handlers.GetCourier.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, courierResponseFrom(view))
}

// VerifyCourier handles POST /api/v1/couriers/:id/verification.
func (s *Server) VerifyCourier(c echo.Context) error {
	courierID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var request verifyCourierRequest
	if err = bind(c, &request); err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewVerifyCourierCommand(
		courierID,
		commands.VerificationDecision(request.Decision),
	)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.VerifyCourier.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListOpenDeliveries handles GET /api/v1/courier/open-deliveries.
func (s *Server) ListOpenDeliveries(c echo.Context) error {
	query, err := queries.NewListOpenDeliveriesQuery(actorID(c))
	if err != nil {
		return respondError(c, err)
	}

	views, err := s.handlers.ListOpenDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, openDeliveriesResponseFrom(views))
}

// UpdateLocation handles POST /api/v1/courier/location. The courier's own
// position is always updated; when the ping names an active delivery it is
// also appended to that delivery's tracking history, best-effort.
func (s *Server) UpdateLocation(c echo.Context) error {
	var request courierLocationRequest
	if err := bind(c, &request); err != nil {
		return respondError(c, err)
	}

	point, err := kernel.NewGeoPoint(request.Lat, request.Lon)
	if err != nil {
		return respondError(c, err)
	}

	courierID := actorID(c)
	command, err := commands.NewUpdateCourierLocationCommand(courierID, point)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	if err = s.handlers.UpdateCourierLocation.Handle(ctx, command); err != nil {
		return respondError(c, err)
	}

	if request.DeliveryID != "" {
		s.recordDeliveryPing(c, request.DeliveryID, courierID, point)
	}

	return c.NoContent(http.StatusNoContent)
}

// recordDeliveryPing appends the ping to the delivery's tracking history.
// Failures are logged, not returned: a stale delivery reference must not
// stop the courier's own location from updating.
func (s *Server) recordDeliveryPing(c echo.Context, rawDeliveryID string, courierID kernel.UUID, point kernel.GeoPoint) {
	ctx := c.Request().Context()

	deliveryID, err := kernel.UUIDFromString(rawDeliveryID)
	if err != nil {
		s.logger.WarnContext(ctx, "Location ping names an invalid delivery ID", "error", err)
		return
	}

	command, err := commands.NewRecordCourierLocationCommand(deliveryID, courierID, point)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to build location ping command", "error", err)
		return
	}

	if err = s.handlers.RecordLocation.Handle(ctx, command); err != nil {
		s.logger.WarnContext(ctx, "Failed to record location ping",
			"delivery_id", deliveryID.String(), "error", err)
	}
}

// SetAvailability handles POST /api/v1/courier/availability.
func (s *Server) SetAvailability(c echo.Context) error {
	var request availabilityRequest
	if err := bind(c, &request); err != nil {
		return respondError(c, err)
	}

	command, err := commands.NewSetCourierAvailabilityCommand(actorID(c), *request.Available)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.handlers.SetAvailability.Handle(c.Request().Context(), command); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// bind decodes and validates a request body.
func bind(c echo.Context, request any) error {
	if err := c.Bind(request); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}

	return c.Validate(request)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	return id, nil
}
