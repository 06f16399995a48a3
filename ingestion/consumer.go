package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fullpicture/types"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// MessageHandler processes one consumed message and reports whether it
// should be marked. An unmarked message is redelivered.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer reads externally scraped perspectives from Kafka
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
	ready    chan bool
	logger   *zap.Logger
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
	Logger  *zap.Logger
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Consumer{
		consumer: group,
		handler:  cfg.Handler,
		topic:    cfg.Topic,
		groupID:  cfg.GroupID,
		ready:    make(chan bool),
		logger:   logger,
	}, nil
}

// Start begins consuming in the background and returns immediately. Readiness
// of the first session is only logged.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		ready:          c.ready,
		logger:         c.logger,
	}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
				if errors.Is(err, context.Canceled) {
					c.logger.Info("kafka consumer context canceled")
					return
				}
				c.logger.Error("kafka consume failed", zap.Error(err))
			}

			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	go func() {
		select {
		case <-c.ready:
			c.logger.Info("kafka consumer started", zap.String("group", c.groupID), zap.String("topic", c.topic))
		case <-ctx.Done():
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			c.logger.Error("kafka consumer error", zap.Error(err))
		}
	}()

	return nil
}

// Close shuts down the consumer group
func (c *Consumer) Close() error {
	c.logger.Info("closing kafka consumer")
	return c.consumer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
	logger         *zap.Logger
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages()
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			shouldMark, err := h.messageHandler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				h.logger.Warn("failed to handle message",
					zap.Int32("partition", message.Partition), zap.Int64("offset", message.Offset), zap.Error(err))
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before handing them on
type TypedMessageHandler[T any] struct {
	// Validate checks if the message should be processed
	Validate func(msg *T) bool
	// Process handles the actual message processing
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks undecodable or invalid messages so they are skipped
	AlwaysMark bool
}

// HandleMessage implements MessageHandler
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		return h.AlwaysMark, err
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}

// NewPerspectiveHandler stores each valid perspective message in sink, then
// runs after. Missing IDs are derived from the URL and missing sentiment is
// scored.
func NewPerspectiveHandler(sink Sink, logger *zap.Logger, after ...AfterFunc) *TypedMessageHandler[types.Perspective] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TypedMessageHandler[types.Perspective]{
		AlwaysMark: true,
		Validate: func(p *types.Perspective) bool {
			if strings.TrimSpace(p.URL) == "" || strings.TrimSpace(p.Source) == "" {
				logger.Warn("dropping perspective without url or source", zap.String("title", p.Title))
				return false
			}
			if _, ok := p.Leaning(); !ok {
				logger.Warn("dropping perspective with unknown community",
					zap.String("url", p.URL), zap.String("community", p.Community))
				return false
			}
			return true
		},
		Process: func(ctx context.Context, p *types.Perspective) error {
			normalizeMessage(p)
			if err := sink.UpsertPerspectives(ctx, []types.Perspective{*p}); err != nil {
				return err
			}
			runAfter(ctx, logger, after)
			return nil
		},
	}
}

// normalizeMessage fills the fields a scraper may leave out
func normalizeMessage(p *types.Perspective) {
	p.URL = strings.TrimSpace(p.URL)
	if p.ID == "" {
		p.ID = types.GenerateID(p.URL)
	}
	if strings.TrimSpace(p.Title) == "" {
		p.Title = TitleFromURL(p.URL)
	}
	p.Quote = PlainText(p.Quote)
	if p.Sentiment == 0 {
		p.Sentiment = Score(p.Quote)
	}
	if t, ok := p.PublishedAt(); ok {
		p.Date = t.UTC().Format(time.DateOnly)
	} else {
		p.Date = time.Now().UTC().Format(time.DateOnly)
	}
	p.CommentCount = 0
}
