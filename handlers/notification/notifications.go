package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Uday261104/lms-v2/database"
	"github.com/Uday261104/lms-v2/services"
	"github.com/Uday261104/lms-v2/utils/middleware"
	"github.com/Uday261104/lms-v2/utils/response"
)

// NotificationHandler handles notification action dispatch requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// DispatchAction resolves a notification action by id, emails the
// authenticated user when the action carries an email payload, and returns
// the action's message.
func (h *NotificationHandler) DispatchAction(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	actionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || actionID < 1 {
		return response.BadRequest(c, "Invalid action ID")
	}

	message, err := h.notifications.Dispatch(c.Context(), actionID, user.Email)
	if err != nil {
		if errors.Is(err, database.ErrActionNotFound) {
			return response.NotFound(c, "Notification action not found")
		}
		return response.InternalServerError(c, "Failed to dispatch notification")
	}

	return response.Success(c, fiber.Map{"message": message})
}
