package middleware

import (
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type VisitRecorder interface {
	Record(v models.PageVisit)
}

// Analytics records a page visit once the rest of the chain has run.
// Recording happens off the request path and never changes the response.
func Analytics(rec VisitRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		ua := c.Get(fiber.HeaderUserAgent)
		if ua == "" {
			ua = "Unknown"
		}
		v := models.PageVisit{
			IP:        ClientIP(c),
			Page:      c.OriginalURL(),
			Duration:  int64(time.Since(start) / time.Second),
			UserAgent: ua,
			CreatedAt: time.Now().UTC(),
		}
		if uid := OptionalUID(c); uid != bson.NilObjectID {
			v.User = &uid
		}
		rec.Record(v)
		return err
	}
}
