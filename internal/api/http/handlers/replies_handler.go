package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/autoserve/support-service/internal/api/dto"
	"github.com/autoserve/support-service/internal/auth"
	"github.com/autoserve/support-service/internal/service"
	apperrors "github.com/autoserve/support-service/pkg/util"
)

// RepliesHandler exposes the reply thread endpoints.
type RepliesHandler struct {
	replies *service.ReplyService
}

// NewRepliesHandler constructs handler.
func NewRepliesHandler(replyService *service.ReplyService) *RepliesHandler {
	return &RepliesHandler{replies: replyService}
}

// Create POST /tickets/:id/replies.
func (h *RepliesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	reply, err := h.replies.PostReply(c.Context(), c.Params("id"), principal.Role, principal.UserID, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromReply(reply)})
}

// ListByTicket GET /tickets/:id/replies.
func (h *RepliesHandler) ListByTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	replies, err := h.replies.ListReplies(c.Context(), c.Params("id"), principal.Role, principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReplies(replies)})
}

// MarkRead PUT /tickets/:id/read.
func (h *RepliesHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.replies.MarkTicketRead(c.Context(), c.Params("id"), principal.Role, principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MarkReadResponse{UpdatedCount: count}})
}

// ListAll GET /replies. Admin-board overview across all tickets.
func (h *RepliesHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	replies, err := h.replies.ListAllReplies(c.Context(), principal.Role, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReplies(replies)})
}

// Update PUT /replies/:id.
func (h *RepliesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	reply, err := h.replies.UpdateReply(c.Context(), c.Params("id"), req.Message, principal.Role, principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReply(reply)})
}

// Delete DELETE /replies/:id.
func (h *RepliesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.replies.DeleteReply(c.Context(), c.Params("id"), principal.Role, principal.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}
