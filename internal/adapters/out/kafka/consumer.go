package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dropmarket/internal/core/application/usecases/commands"
	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"

	"github.com/IBM/sarama"
)

// partnerPackage is one parcel of an inbound partner order.
type partnerPackage struct {
	Size               string `json:"size"`
	WeightGrams        int    `json:"weight_grams"`
	DeclaredValueCents int64  `json:"declared_value_cents"`
	Fragile            bool   `json:"fragile"`
	Insured            bool   `json:"insured"`
}

// partnerOrderMessage is the JSON body of one partner order. OrderID is
// optional; partners that send one get idempotent intake because the
// delivery ID is client-generated.
type partnerOrderMessage struct {
	OrderID       string           `json:"order_id"`
	SenderID      string           `json:"sender_id"`
	PickupStreet  string           `json:"pickup_street"`
	DropoffStreet string           `json:"dropoff_street"`
	Kind          string           `json:"kind"`
	PromoCode     string           `json:"promo_code"`
	InstrumentRef string           `json:"instrument_ref"`
	RequestedAt   time.Time        `json:"requested_at"`
	Packages      []partnerPackage `json:"packages"`
}

// commandFromMessage maps a partner order body to a delivery creation
// command.
func commandFromMessage(value []byte) (commands.CreateDeliveryCommand, error) {
	var message partnerOrderMessage
	if err := json.Unmarshal(value, &message); err != nil {
		return commands.CreateDeliveryCommand{}, fmt.Errorf("malformed partner order: %w", err)
	}

	deliveryID := kernel.NewUUID()
	if message.OrderID != "" {
		parsed, err := kernel.UUIDFromString(message.OrderID)
		if err != nil {
			return commands.CreateDeliveryCommand{}, err
		}
		deliveryID = parsed
	}

	senderID, err := kernel.UUIDFromString(message.SenderID)
	if err != nil {
		return commands.CreateDeliveryCommand{}, err
	}

	kind, err := delivery.KindFromString(message.Kind)
	if err != nil {
		return commands.CreateDeliveryCommand{}, err
	}

	specs := make([]commands.PackageSpec, 0, len(message.Packages))
	for _, pkg := range message.Packages {
		size, sizeErr := delivery.SizeClassFromString(pkg.Size)
		if sizeErr != nil {
			return commands.CreateDeliveryCommand{}, sizeErr
		}
		specs = append(specs, commands.PackageSpec{
			Size:               size,
			WeightGrams:        pkg.WeightGrams,
			DeclaredValueCents: pkg.DeclaredValueCents,
			Fragile:            pkg.Fragile,
			Insured:            pkg.Insured,
		})
	}

	requestedAt := message.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	return commands.NewCreateDeliveryCommand(
		deliveryID,
		senderID,
		message.PickupStreet,
		message.DropoffStreet,
		specs,
		kind,
		message.PromoCode,
		message.InstrumentRef,
		requestedAt,
	)
}

// PartnerOrderConsumer reads partner orders from Kafka and creates
// deliveries for them. Malformed or rejected orders are logged and skipped;
// one bad message must never wedge its partition.
type PartnerOrderConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler commands.CreateDeliveryCommandHandler
	logger  *slog.Logger
}

// NewPartnerOrderConsumer joins the consumer group on the given brokers.
func NewPartnerOrderConsumer(
	brokers []string,
	groupID string,
	topic string,
	handler commands.CreateDeliveryCommandHandler,
	logger *slog.Logger,
) (*PartnerOrderConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &PartnerOrderConsumer{
		group:   group,
		topics:  []string{topic},
		handler: handler,
		logger:  logger.With("component", "partner_order_consumer"),
	}, nil
}

// Run consumes until the context is cancelled.
func (c *PartnerOrderConsumer) Run(ctx context.Context) error {
	handler := consumerGroupHandler{
		handler: c.handler,
		logger:  c.logger,
	}

	for {
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.logger.ErrorContext(ctx, "Consumer group session failed", "error", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close leaves the consumer group.
func (c *PartnerOrderConsumer) Close() error {
	return c.group.Close()
}

type consumerGroupHandler struct {
	handler commands.CreateDeliveryCommandHandler
	logger  *slog.Logger
}

func (consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		ctx := session.Context()

		cmd, err := commandFromMessage(message.Value)
		if err != nil {
			h.logger.WarnContext(ctx, "Skipping partner order",
				"topic", message.Topic, "offset", message.Offset, "error", err)
			session.MarkMessage(message, "")
			continue
		}

		if err = h.handler.Handle(ctx, cmd); err != nil {
			h.logger.ErrorContext(ctx, "Failed to create delivery for partner order",
				"topic", message.Topic, "offset", message.Offset, "error", err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}
