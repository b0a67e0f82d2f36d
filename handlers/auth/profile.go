package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
)

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	return response.Success(c, toUserResponse(user))
}
