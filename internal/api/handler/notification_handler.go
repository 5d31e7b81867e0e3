package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/ports"
)

type NotificationHandler struct {
	notifier ports.Notifier
}

func NewNotificationHandler(notifier ports.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

type serviceRequestNotification struct {
	ProfessionalEmail string `json:"professionalEmail" validate:"required,email"`
	ProfessionalName  string `json:"professionalName"  validate:"required"`
	ServiceName       string `json:"serviceName"       validate:"required"`
	Message           string `json:"message"           validate:"max=1000"`
}

// NotifyServiceRequest handles POST /api/service-requests/notify. The email
// is queued; 202 means accepted for delivery, not delivered.
//
// @Summary      Tell a professional about a service request
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      serviceRequestNotification  true  "Request details"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/service-requests/notify [post]
func (h *NotificationHandler) NotifyServiceRequest(c echo.Context) error {
	requester, err := ctxAccount(c)
	if err != nil {
		return err
	}
	var req serviceRequestNotification
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.notifier.SendServiceRequestNotification(c.Request().Context(), req.ProfessionalEmail, ports.ServiceRequest{
		ProfessionalName: strings.TrimSpace(req.ProfessionalName),
		ServiceName:      strings.TrimSpace(req.ServiceName),
		RequesterName:    requester.Name,
		RequesterEmail:   requester.Email,
		Message:          strings.TrimSpace(req.Message),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, okMessage("Notification queued"))
}
