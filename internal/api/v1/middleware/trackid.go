package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const TrackIDHeader = "X-Track-Id"

const trackIDLocal = "track_id"

// TrackIDMiddleware tags every request with a track id, honouring one
// supplied by the caller so ids survive across service hops.
func TrackIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackID := c.Get(TrackIDHeader)
		if trackID == "" {
			trackID = uuid.NewString()
		}

		c.Locals(trackIDLocal, trackID)
		c.Set(TrackIDHeader, trackID)

		return c.Next()
	}
}

func TrackID(c *fiber.Ctx) string {
	if trackID, ok := c.Locals(trackIDLocal).(string); ok {
		return trackID
	}
	return ""
}
