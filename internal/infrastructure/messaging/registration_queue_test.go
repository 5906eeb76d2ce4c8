package messaging

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// queueUserRepo намеренно без внутренней блокировки: гонку двух
// одновременных регистраций обязана закрывать очередь, а не хранилище.
// Искусственная задержка между проверкой и вставкой расширяет окно гонки.
type queueUserRepo struct {
	mu    sync.Mutex
	users []*user.User
	delay time.Duration
}

func (r *queueUserRepo) snapshot() []*user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *queueUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range r.snapshot() {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *queueUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.snapshot() {
		if u.Email == email {
			return u, nil
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return nil, shared.ErrUserNotFound
}

func (r *queueUserRepo) FindAll(_ context.Context) ([]*user.User, error) {
	return r.snapshot(), nil
}

func (r *queueUserRepo) Insert(_ context.Context, u *user.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = "u" + u.Email
	r.users = append(r.users, u)
	return u.ID, nil
}

func (r *queueUserRepo) UpsertByID(_ context.Context, id string, u *user.User) (int64, error) {
	return 0, nil
}

func (r *queueUserRepo) UpsertByEmail(_ context.Context, email string, u *user.User) (int64, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func newTestQueue(repo *queueUserRepo) *RegistrationQueue {
	handler := command.NewRegisterUserHandler(repo, nil)
	return NewRegistrationQueue(handler, 8, testLogger())
}

func TestRegistrationQueueRegistersUser(t *testing.T) {
	repo := &queueUserRepo{}
	q := newTestQueue(repo)
	defer q.Close()

	result, err := q.Register(context.Background(), command.RegisterUserCommand{
		Email: "tom@example.com",
		Name:  "Tom",
	})

	assert.NoError(t, err)
	assert.False(t, result.AlreadyExisted)
	assert.Len(t, repo.snapshot(), 1)
}

func TestRegistrationQueueSerializesConcurrentDuplicates(t *testing.T) {
	repo := &queueUserRepo{delay: 5 * time.Millisecond}
	q := newTestQueue(repo)
	defer q.Close()

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := q.Register(context.Background(), command.RegisterUserCommand{
				Email: "tom@example.com",
				Name:  "Tom",
			})
			assert.NoError(t, err)
			if !result.AlreadyExisted {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Гонка check-then-insert закрыта: вставка ровно одна.
	assert.Equal(t, 1, inserted)
	assert.Len(t, repo.snapshot(), 1)
}

func TestRegistrationQueuePropagatesHandlerError(t *testing.T) {
	q := newTestQueue(&queueUserRepo{})
	defer q.Close()

	result, err := q.Register(context.Background(), command.RegisterUserCommand{
		Email: "not-an-email",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegistrationQueueRejectsAfterClose(t *testing.T) {
	q := newTestQueue(&queueUserRepo{})
	q.Close()

	_, err := q.Register(context.Background(), command.RegisterUserCommand{
		Email: "tom@example.com",
		Name:  "Tom",
	})

	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestRegistrationQueueCloseIsIdempotent(t *testing.T) {
	q := newTestQueue(&queueUserRepo{})
	q.Close()
	q.Close()
}

func TestRegistrationQueueHonoursContextCancellation(t *testing.T) {
	// Занимаем воркера медленной регистрацией, чтобы отменённый запрос
	// гарантированно ждал результата, а не обрабатывался мгновенно.
	repo := &queueUserRepo{delay: 100 * time.Millisecond}
	q := newTestQueue(repo)
	defer q.Close()

	go func() {
		_, _ = q.Register(context.Background(), command.RegisterUserCommand{
			Email: "busy@example.com",
			Name:  "Busy",
		})
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Register(ctx, command.RegisterUserCommand{
		Email: "tom@example.com",
		Name:  "Tom",
	})

	assert.ErrorIs(t, err, context.Canceled)
}
