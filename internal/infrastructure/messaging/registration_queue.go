package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION QUEUE
// The store does not enforce email uniqueness, so two concurrent
// registrations can both pass the "not exists" check and both insert.
// The queue closes that race by funnelling all registrations through a
// single worker goroutine: within one process, check-then-insert runs
// strictly one at a time.
// ══════════════════════════════════════════════════════════════════════════════

// ErrQueueClosed is returned when submitting to a stopped queue.
var ErrQueueClosed = errors.New("registration queue: closed")

type registrationJob struct {
	ctx    context.Context
	cmd    command.RegisterUserCommand
	result chan registrationOutcome
}

type registrationOutcome struct {
	res *command.RegisterUserResult
	err error
}

// RegistrationQueue serializes user registration commands.
type RegistrationQueue struct {
	handler *command.RegisterUserHandler
	jobs    chan registrationJob
	log     *logger.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewRegistrationQueue creates and starts the queue worker.
func NewRegistrationQueue(handler *command.RegisterUserHandler, buffer int, log *logger.Logger) *RegistrationQueue {
	if buffer <= 0 {
		buffer = 64
	}
	q := &RegistrationQueue{
		handler: handler,
		jobs:    make(chan registrationJob, buffer),
		log:     log,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Register submits a registration and waits for its outcome.
func (q *RegistrationQueue) Register(ctx context.Context, cmd command.RegisterUserCommand) (*command.RegisterUserResult, error) {
	job := registrationJob{
		ctx:    ctx,
		cmd:    cmd,
		result: make(chan registrationOutcome, 1),
	}

	select {
	case <-q.done:
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case q.jobs <- job:
	}

	// Отправка в буферизованный канал могла выиграть гонку с закрытием,
	// когда воркер уже остановлен - поэтому здесь тоже следим за done.
	select {
	case out := <-job.result:
		return out.res, out.err
	case <-q.done:
		select {
		case out := <-job.result:
			return out.res, out.err
		default:
		}
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the worker. In-flight jobs complete; queued jobs after the
// close are rejected.
func (q *RegistrationQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

func (q *RegistrationQueue) run() {
	for {
		select {
		case <-q.done:
			return
		case job := <-q.jobs:
			res, err := q.handler.Handle(job.ctx, job.cmd)
			if err != nil {
				q.log.Warn("registration failed",
					logger.Email(job.cmd.Email),
					logger.Err(err),
				)
			}
			job.result <- registrationOutcome{res: res, err: err}
		}
	}
}
