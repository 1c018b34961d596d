// utils/http.go
package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ParsePage reads ?page= and ?limit= with sane bounds. Pages are 1-based.
func ParsePage(c *fiber.Ctx, defaultLimit, maxLimit int) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit = c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
