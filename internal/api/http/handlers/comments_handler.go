package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/internal/api/dto"
	"github.com/JoshyLop/intranet-tickets-api/internal/auth"
	"github.com/JoshyLop/intranet-tickets-api/internal/service"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// CommentHandler serves the comment endpoints.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler constructs the handler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create handles POST /api/comments.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	comment, err := h.comments.Create(c.UserContext(), caller, service.CommentCreateInput{
		TicketID:   req.TicketID,
		Content:    req.Content,
		IsInternal: req.IsInternal,
		Attachment: attachmentInput(req.Attachment),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// List handles GET /api/comments.
func (h *CommentHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var query service.CommentQuery
	if raw := c.Query("ticket"); raw != "" {
		query.TicketID = &raw
	}
	if raw := c.Query("author"); raw != "" {
		query.AuthorID = &raw
	}
	if raw := c.Query("is_internal"); raw != "" {
		isInternal, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidation("invalid is_internal filter", map[string]any{"field": "is_internal"})
		}
		query.IsInternal = &isInternal
	}
	if raw := c.Query("search"); raw != "" {
		query.Search = &raw
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}
	query.Limit = limit
	query.Offset = offset

	comments, err := h.comments.List(c.UserContext(), caller, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}

// Get handles GET /api/comments/:id.
func (h *CommentHandler) Get(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	comment, err := h.comments.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Update handles PATCH /api/comments/:id.
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	comment, err := h.comments.Update(c.UserContext(), caller, c.Params("id"), service.CommentUpdateInput{
		Content:    req.Content,
		IsInternal: req.IsInternal,
		Attachment: attachmentInput(req.Attachment),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.comments.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func attachmentInput(req *dto.AttachmentRequest) *service.AttachmentInput {
	if req == nil {
		return nil
	}
	return &service.AttachmentInput{
		StorageKey: req.StorageKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	}
}
