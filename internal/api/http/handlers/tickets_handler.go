package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/internal/api/dto"
	"github.com/JoshyLop/intranet-tickets-api/internal/auth"
	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/service"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TicketHandler serves the ticket endpoints.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler constructs the handler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Create handles POST /api/tickets.
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), caller, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketDetail(ticket, nil, time.Now()),
	})
}

// List handles GET /api/tickets.
func (h *TicketHandler) List(c *fiber.Ctx) error {
	query, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets, time.Now())})
}

// ListMine handles GET /api/tickets/my-tickets.
func (h *TicketHandler) ListMine(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	query, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListMine(c.UserContext(), caller, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets, time.Now())})
}

// ListAssignedToMe handles GET /api/tickets/assigned-to-me.
func (h *TicketHandler) ListAssignedToMe(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	query, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAssignedToMe(c.UserContext(), caller, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets, time.Now())})
}

// Get handles GET /api/tickets/:id.
func (h *TicketHandler) Get(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, comments, err := h.tickets.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, comments, time.Now())})
}

// Update handles PATCH /api/tickets/:id.
func (h *TicketHandler) Update(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	ticket, err := h.tickets.Update(c.UserContext(), caller, c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, nil, time.Now())})
}

// Close handles POST /api/tickets/:id/close.
func (h *TicketHandler) Close(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Close(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, nil, time.Now())})
}

// Reopen handles POST /api/tickets/:id/reopen.
func (h *TicketHandler) Reopen(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Reopen(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket, nil, time.Now())})
}

// Delete handles DELETE /api/tickets/:id.
func (h *TicketHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.tickets.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketQuery, error) {
	var query service.TicketQuery

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseTicketStatus(part)
			if err != nil {
				return query, apperrors.NewValidation("invalid status filter", map[string]any{"field": "status"})
			}
			query.Statuses = append(query.Statuses, status)
		}
	}
	if raw := c.Query("priority"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			priority, err := domain.ParseTicketPriority(part)
			if err != nil {
				return query, apperrors.NewValidation("invalid priority filter", map[string]any{"field": "priority"})
			}
			query.Priorities = append(query.Priorities, priority)
		}
	}
	if raw := c.Query("created_by"); raw != "" {
		query.CreatedBy = &raw
	}
	if raw := c.Query("assigned_to"); raw != "" {
		query.AssignedTo = &raw
	}
	if raw := c.Query("search"); raw != "" {
		query.Search = &raw
	}
	query.Ordering = c.Query("ordering")

	limit, offset, err := parsePagination(c)
	if err != nil {
		return query, err
	}
	query.Limit = limit
	query.Offset = offset
	return query, nil
}

func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, apperrors.NewValidation("invalid page", map[string]any{"field": "page"})
		}
	}
	size := defaultPageSize
	if raw := c.Query("page_size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 1 {
			return 0, 0, apperrors.NewValidation("invalid page_size", map[string]any{"field": "page_size"})
		}
		if size > maxPageSize {
			size = maxPageSize
		}
	}
	return size, (page - 1) * size, nil
}
