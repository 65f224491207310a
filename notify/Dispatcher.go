package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stackit/models"
)

// inserter is the slice of *mongo.Collection the dispatcher needs.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Dispatcher persists notifications off the request path. Enqueue never
// blocks and delivery failures are logged, not propagated, so the primary
// action cannot be failed by its notification side effect.
type Dispatcher struct {
	store inserter
	hub   *Hub
	log   zerolog.Logger
	queue chan models.Notification
	done  chan struct{}
}

func NewDispatcher(store inserter, hub *Hub, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store: store,
		hub:   hub,
		log:   log,
		queue: make(chan models.Notification, 64),
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for notification := range d.queue {
		d.deliver(notification)
	}
}

func (d *Dispatcher) deliver(notification models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := d.store.InsertOne(ctx, notification); err != nil {
		d.log.Error().Err(err).
			Str("type", notification.Type).
			Str("user", notification.User.Hex()).
			Msg("failed to persist notification")
		return
	}

	if d.hub != nil {
		d.hub.Push(notification)
	}
}

// Enqueue offers the notification to the delivery queue. When the queue is
// full the notification is dropped with a warning; the caller's request is
// never held up.
func (d *Dispatcher) Enqueue(notification models.Notification) {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	select {
	case d.queue <- notification:
	default:
		d.log.Warn().
			Str("type", notification.Type).
			Str("user", notification.User.Hex()).
			Msg("notification queue full, dropping")
	}
}

// Close stops intake and waits for the backlog to drain or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	close(d.queue)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewAnswerNotification addresses the question author when someone else
// answers their question.
func NewAnswerNotification(questionAuthor, questionID primitive.ObjectID, title string) models.Notification {
	return models.Notification{
		User:    questionAuthor,
		Type:    models.NotificationNewAnswer,
		Message: fmt.Sprintf("Someone answered your question: \"%s\"", title),
		Link:    "/questions/" + questionID.Hex(),
	}
}
