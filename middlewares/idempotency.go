package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"hvacdesk-backend/database"
	"hvacdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// idempotencyStore persists key records. begin returns the authoritative
// record for a key: the freshly created pending one, or whatever a previous
// request already stored.
type idempotencyStore interface {
	begin(rec models.IdempotencyKey) (models.IdempotencyKey, error)
	complete(key string, status int, body []byte) error
}

type gormIdempotencyStore struct{}

func (gormIdempotencyStore) begin(rec models.IdempotencyKey) (models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", rec.Key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			if e2 := tx.Create(&rec).Error; e2 != nil {
				// Unique race: someone else inserted first, read theirs.
				return tx.Where("key = ?", rec.Key).First(&existing).Error
			}
			existing = rec
		}
		return nil
	})
	return existing, err
}

func (gormIdempotencyStore) complete(key string, status int, body []byte) error {
	now := time.Now().UTC()
	return database.DB.Model(&models.IdempotencyKey{}).
		Where("key = ?", key).
		Updates(map[string]any{
			"response_status": status,
			"response_body":   body,
			"completed_at":    &now,
		}).Error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods. Keys are
// scoped by company and user; a completed response is replayed verbatim
// without running the handler again, and reuse with a different request body
// is a 409.
func Idempotency() fiber.Handler {
	return idempotencyWith(gormIdempotencyStore{})
}

func idempotencyWith(store idempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Idempotency-Key too long"})
		}

		companyID := CompanyID(c)
		userID, _ := c.Locals("userID").(string)

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Deterministic request hash: method|path|body|company|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(companyID))
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, err := store.begin(models.IdempotencyKey{
			Key:         key,
			RequestHash: reqHash,
			Method:      method,
			Path:        path,
			CompanyID:   companyID,
			UserID:      userID,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Replay the stored response. The handler must not run again: a
			// second execution would repeat the mutation (e.g. insert the
			// same payment twice).
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Store the response (best effort).
		status := c.Response().StatusCode()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		_ = store.complete(key, status, blob)

		return nil
	}
}
