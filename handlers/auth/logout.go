package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
)

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok {
		jti = claims.ID
	}

	if claims.ExpiresAt != nil {
		if err := h.blacklistService.RevokeToken(c.Context(), jti, claims.UserID, claims.ExpiresAt.Time, "logout"); err != nil {
			return response.InternalServerError(c, "Failed to revoke token")
		}
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
