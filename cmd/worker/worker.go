package worker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	appkafka "example.com/golfbuddy/internal/broker"
	"example.com/golfbuddy/internal/logger"
	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/store"
	"github.com/segmentio/kafka-go"
)

var logg = logger.New("worker")

const fanoutLimit = 20

// Worker consumes activity events and writes the resulting notifications
// concurrently.
type Worker struct {
	store        store.StoreInterface
	notes        store.NotificationStore
	reader       appkafka.KafkaReader
	workerCount  int
	jobQueueSize int
}

// New creates a new concurrent Worker using pre-initialized dependencies.
func New(st store.StoreInterface, notes store.NotificationStore, reader appkafka.KafkaReader, workerCount, jobQueueSize int) *Worker {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if jobQueueSize <= 0 {
		jobQueueSize = workerCount * 10
	}
	return &Worker{
		store:        st,
		notes:        notes,
		reader:       reader,
		workerCount:  workerCount,
		jobQueueSize: jobQueueSize,
	}
}

// Run starts message reading and concurrent processing.
func (w *Worker) Run(ctx context.Context) {
	if w.workerCount <= 0 {
		w.workerCount = 1
	}
	if w.jobQueueSize <= 0 {
		w.jobQueueSize = 10
	}

	logg.Info("Starting " + fmt.Sprint(w.workerCount) + " workers with queue size " + fmt.Sprint(w.jobQueueSize))

	jobs := make(chan kafka.Message, w.jobQueueSize)
	var wg sync.WaitGroup

	for i := 0; i < w.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.processLoop(ctx, jobs)
		}()
	}

	w.readLoop(ctx, jobs)

	close(jobs)
	wg.Wait()
	logg.Info("All workers stopped gracefully")
}

// readLoop reads Kafka messages and pushes them into a job queue.
func (w *Worker) readLoop(ctx context.Context, jobs chan<- kafka.Message) {
	var retry int
	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := w.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				backoff := time.Duration(math.Min(1000, math.Pow(2, float64(retry)))) * time.Millisecond
				logg.Error("Kafka read error, backing off", err)
				if !waitWithContext(ctx, backoff) {
					return
				}
				retry++
				continue
			}
			retry = 0

			if len(msg.Value) == 0 {
				if !waitWithContext(ctx, 50*time.Millisecond) {
					return
				}
				continue
			}

			// block until a worker is free; the queue is the only backpressure
			for enqueued := false; !enqueued; {
				select {
				case jobs <- msg:
					enqueued = true
				case <-ctx.Done():
					return
				case <-time.After(100 * time.Millisecond):
					logg.Info("Queue full, waiting to enqueue Kafka message")
				}
			}
		}
	}
}

// processLoop decodes events and delivers their notifications.
func (w *Worker) processLoop(ctx context.Context, jobs <-chan kafka.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.HandleMessage(ctx, msg); err != nil {
				logg.Error("Failed to handle activity event", err)
			}
		}
	}
}

// HandleMessage turns one activity event into notifications. Empty messages
// are ignored.
func (w *Worker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	if len(msg.Value) == 0 {
		return nil
	}
	ev, err := appkafka.DecodeEvent(msg)
	if err != nil {
		return err
	}

	recipients, err := w.recipients(ctx, ev)
	if err != nil {
		return err
	}
	if err := w.deliver(ctx, ev, recipients); err != nil {
		return err
	}
	logg.Debug(fmt.Sprintf("%s delivered to %d recipients (user IDs anonymized)", ev.Type, len(recipients)))
	return nil
}

// recipients decides who hears about ev. Nobody is notified of their own
// activity.
func (w *Worker) recipients(ctx context.Context, ev models.Event) ([]int64, error) {
	switch ev.Type {
	case models.EventUserFollowed:
		if ev.TargetUserID == 0 || ev.TargetUserID == ev.ActorID {
			return nil, nil
		}
		return []int64{ev.TargetUserID}, nil

	case models.EventPostLiked, models.EventPostCommented:
		author := ev.TargetUserID
		if author == 0 {
			p, err := w.store.GetPost(ctx, ev.PostID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("failed to load post: %w", err)
			}
			author = p.UserID
		}
		if author == ev.ActorID {
			return nil, nil
		}
		return []int64{author}, nil

	case models.EventPostCreated:
		followers, err := w.store.ListFollowers(ctx, ev.ActorID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch followers: %w", err)
		}
		ids := make([]int64, 0, len(followers))
		for _, f := range followers {
			ids = append(ids, f.ID)
		}
		return ids, nil
	}

	logg.Warn("Skipping event of unknown type "+string(ev.Type), nil)
	return nil, nil
}

// deliver writes one notification per recipient with at most fanoutLimit
// writes in flight.
func (w *Worker) deliver(ctx context.Context, ev models.Event, recipients []int64) error {
	var (
		fanoutWG sync.WaitGroup
		mu       sync.Mutex
		errs     []error
	)
	semaphore := make(chan struct{}, fanoutLimit)

	for _, uid := range recipients {
		select {
		case <-ctx.Done():
			fanoutWG.Wait()
			return ctx.Err()
		case semaphore <- struct{}{}:
		}

		fanoutWG.Add(1)
		go func(u int64) {
			defer fanoutWG.Done()
			defer func() { <-semaphore }()

			n := models.Notification{
				UserID:  u,
				Type:    ev.Type,
				ActorID: ev.ActorID,
				PostID:  ev.PostID,
				Created: ev.Created,
			}
			if err := w.notes.AddNotification(ctx, n); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(uid)
	}

	fanoutWG.Wait()
	return errors.Join(errs...)
}

// waitWithContext waits for duration or context cancellation.
func waitWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Close shuts down the Kafka reader and both stores.
func (w *Worker) Close() error {
	logg.Info("Closing Kafka reader")
	if err := w.reader.Close(); err != nil {
		logg.Error("Error closing Kafka reader", err)
		return err
	}

	logg.Info("Closing notification and relational stores")
	w.notes.Close()
	w.store.Close()
	return nil
}
