package grades

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"carbon-travel-api/internal/trips"

	"github.com/rs/zerolog"
)

// Notifier pushes a message to one connected user.
type Notifier interface {
	Send(userID string, message []byte) error
}

// GradeUpdatedEvent is the websocket payload sent after points are awarded.
type GradeUpdatedEvent struct {
	Event      string `json:"event"`
	UserID     string `json:"userId"`
	Grade      int64  `json:"grade"`
	Motivation string `json:"motivation"`
	Points     int64  `json:"points"`
}

const awardTimeout = 10 * time.Second

// Dispatcher consumes TripLogged events on a single worker goroutine. Errors
// and panics in the handler are logged and never reach the publisher.
type Dispatcher struct {
	service  *Service
	notifier Notifier
	log      zerolog.Logger

	queue     chan trips.TripLogged
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(service *Service, notifier Notifier, queueSize int, log zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		service:  service,
		notifier: notifier,
		log:      log,
		queue:    make(chan trips.TripLogged, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues e. When the queue is full or the dispatcher is closed the
// event is dropped with a warning.
func (d *Dispatcher) Publish(e trips.TripLogged) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("tripId", e.TripID.Hex()).Msg("Grade dispatcher closed, event dropped")
		return
	}
	select {
	case d.queue <- e:
	default:
		d.log.Warn().Str("tripId", e.TripID.Hex()).Str("userId", e.UserID.Hex()).Msg("Grade queue full, event dropped")
	}
}

// Close stops accepting events and waits until queued ones are handled or
// ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.queue {
		d.handle(e)
	}
}

func (d *Dispatcher) handle(e trips.TripLogged) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("tripId", e.TripID.Hex()).Msg("Grade handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), awardTimeout)
	defer cancel()

	grade, err := d.service.Award(ctx, e.UserID, e.Mode, e.Distance)
	if err != nil {
		d.log.Error().Err(err).Str("tripId", e.TripID.Hex()).Msg("Failed to update user grade")
		return
	}
	if grade == nil || d.notifier == nil {
		return
	}

	msg, err := json.Marshal(GradeUpdatedEvent{
		Event:      "grade_updated",
		UserID:     e.UserID.Hex(),
		Grade:      grade.Grade,
		Motivation: grade.Motivation,
		Points:     Points(e.Mode, e.Distance),
	})
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to encode grade event")
		return
	}
	if err := d.notifier.Send(e.UserID.Hex(), msg); err != nil {
		d.log.Warn().Err(err).Str("userId", e.UserID.Hex()).Msg("Failed to push grade update")
	}
}
