package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/attendance-portal/internal/api/metrics"
	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// ChatHandler serves the polling-based messaging routes. Clients call
// History on an interval; Send returns the stored message so the optimistic
// local echo can be reconciled with the authoritative id and timestamp.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body"         validate:"required"`
}

// Contacts lists who the caller may currently message.
//
// @Summary      Current chat contacts
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Contact
// @Failure      401  {object}  errorResponse
// @Router       /api/chat/contacts [get]
func (h *ChatHandler) Contacts(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	contacts, err := h.chat.Contacts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []*domain.Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}

// History returns the full thread between the caller and the target,
// oldest first. An empty thread is a 200 with an empty array.
//
// @Summary      Conversation history
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        targetId  path      string  true  "Other participant's id"
// @Success      200       {array}   domain.Message
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/chat/history/{targetId} [get]
func (h *ChatHandler) History(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msgs, err := h.chat.History(c.Request().Context(), userID, c.Param("targetId"))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// Send appends a message to the thread.
//
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/chat/send [post]
func (h *ChatHandler) Send(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.chat.Send(c.Request().Context(), userID, req.RecipientID, req.Body)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusCreated, msg)
}
