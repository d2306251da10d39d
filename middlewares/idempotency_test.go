package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacdesk-backend/models"
)

type memoryIdempotencyStore struct {
	mu   sync.Mutex
	recs map[string]models.IdempotencyKey
}

func newMemoryStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{recs: make(map[string]models.IdempotencyKey)}
}

func (s *memoryIdempotencyStore) begin(rec models.IdempotencyKey) (models.IdempotencyKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.recs[rec.Key]; ok {
		return existing, nil
	}
	s.recs[rec.Key] = rec
	return rec, nil
}

func (s *memoryIdempotencyStore) complete(key string, status int, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recs[key]
	rec.ResponseStatus = status
	rec.ResponseBody = body
	s.recs[key] = rec
	return nil
}

func buildIdempotencyApp(store idempotencyStore, calls *int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/pay", idempotencyWith(store), func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": *calls})
	})
	return app
}

// A retried request with the same key must replay the stored response, not
// run the mutation a second time.
func TestIdempotency_ReplayDoesNotRerunHandler(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	app := buildIdempotencyApp(store, &calls)

	send := func() (int, string) {
		req := httptest.NewRequest("POST", "/pay", strings.NewReader(`{"amount":50}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}

	status1, body1 := send()
	assert.Equal(t, fiber.StatusCreated, status1)
	assert.Equal(t, 1, calls)

	status2, body2 := send()
	assert.Equal(t, 1, calls, "handler must not run again on replay")
	assert.Equal(t, status1, status2)
	assert.Equal(t, body1, body2, "replay must return the stored response")
}

func TestIdempotency_KeyReuseDifferentBodyConflicts(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	app := buildIdempotencyApp(store, &calls)

	first := httptest.NewRequest("POST", "/pay", strings.NewReader(`{"amount":50}`))
	first.Header.Set("Content-Type", "application/json")
	first.Header.Set("Idempotency-Key", "key-2")
	resp, err := app.Test(first)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	second := httptest.NewRequest("POST", "/pay", strings.NewReader(`{"amount":9999}`))
	second.Header.Set("Content-Type", "application/json")
	second.Header.Set("Idempotency-Key", "key-2")
	resp, err = app.Test(second)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	app := buildIdempotencyApp(store, &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/pay", strings.NewReader(`{"amount":50}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.recs)
}
