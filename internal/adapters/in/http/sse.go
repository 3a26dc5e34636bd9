package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dropmarket/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// heartbeatInterval keeps idle SSE connections from being reaped by
// intermediaries.
const heartbeatInterval = 25 * time.Second

// sseFrame is the JSON payload of one server-sent event.
type sseFrame struct {
	Event string         `json:"event"`
	At    time.Time      `json:"at"`
	Data  map[string]any `json:"data"`
}

// StreamDeliveryEvents handles GET /api/v1/deliveries/:id/events: the
// per-delivery stream of status changes, location pings and chat messages.
func (s *Server) StreamDeliveryEvents(c echo.Context) error {
	deliveryID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	return s.stream(c, ports.DeliveryTopic(deliveryID.String()))
}

// StreamCourierFeed handles GET /api/v1/courier/feed: the broadcast stream
// of open and reopened offers. Events missed while disconnected are
// recovered through the open-deliveries query.
func (s *Server) StreamCourierFeed(c echo.Context) error {
	return s.stream(c, ports.CouriersTopic)
}

func (s *Server) stream(c echo.Context, topic string) error {
	subscription := s.hub.Subscribe(topic)
	defer s.hub.Unsubscribe(subscription)

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	ctx := c.Request().Context()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(response, ": ping\n\n"); err != nil {
				return nil
			}
			response.Flush()
		case event, ok := <-subscription.Events():
			if !ok {
				return nil
			}
			if err := writeSSE(response, event); err != nil {
				return nil
			}
			response.Flush()
		}
	}
}

// writeSSE writes one event in text/event-stream framing.
func writeSSE(w io.Writer, event ports.Event) error {
	data, err := json.Marshal(sseFrame{Event: event.Name, At: event.At, Data: event.Data})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
	return err
}
