// Package queue serializes event handling per user: one worker per
// active user key, FIFO order, users independent of each other. A slow
// dispatch for one user never delays another, and two events from the
// same user can never race on their session.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

var ErrBusy = errors.New("queue is full")

const workerIdleTimeout = 5 * time.Minute

type Task func()

type Options struct {
	Buffer   int
	Requests int
	Period   time.Duration
}

type Queue struct {
	ctx     context.Context
	opts    Options
	logger  logger.Logger
	mu      sync.Mutex
	workers map[int64]*worker
}

type worker struct {
	tasks   chan Task
	limiter *rate.Limiter
}

func New(ctx context.Context, opts Options, log logger.Logger) *Queue {
	if opts.Buffer <= 0 {
		opts.Buffer = 16
	}
	if opts.Requests <= 0 {
		opts.Requests = 1
	}
	if opts.Period <= 0 {
		opts.Period = 10 * time.Second
	}
	return &Queue{
		ctx:     ctx,
		opts:    opts,
		logger:  log,
		workers: make(map[int64]*worker),
	}
}

// Enqueue appends a task to the user's FIFO. Returns ErrBusy when the
// user already has a full backlog.
func (q *Queue) Enqueue(userID int64, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	w, ok := q.workers[userID]
	if !ok {
		w = &worker{
			tasks: make(chan Task, q.opts.Buffer),
			limiter: rate.NewLimiter(
				rate.Every(q.opts.Period/time.Duration(q.opts.Requests)),
				q.opts.Requests,
			),
		}
		q.workers[userID] = w
		go q.run(userID, w)
	}

	select {
	case w.tasks <- task:
		return nil
	default:
		return ErrBusy
	}
}

func (q *Queue) run(userID int64, w *worker) {
	log := q.logger.WithField("user_id", userID)
	log.Debug("Worker started")
	defer log.Debug("Worker stopped")

	idle := time.NewTimer(workerIdleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-q.ctx.Done():
			q.remove(userID)
			return
		case task := <-w.tasks:
			if err := w.limiter.Wait(q.ctx); err != nil {
				q.remove(userID)
				return
			}
			q.runTask(log, task)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(workerIdleTimeout)
		case <-idle.C:
			// Retire only when nothing slipped in; Enqueue holds the
			// lock while sending, so checking under it is safe.
			q.mu.Lock()
			if len(w.tasks) == 0 {
				delete(q.workers, userID)
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			idle.Reset(workerIdleTimeout)
		}
	}
}

func (q *Queue) runTask(log logger.Logger, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("recovered from panic: %v", r))
		}
	}()
	task()
}

func (q *Queue) remove(userID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.workers, userID)
}

// ActiveWorkers reports how many users currently have a worker.
func (q *Queue) ActiveWorkers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.workers)
}
