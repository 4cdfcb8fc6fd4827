package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/security/middleware"
	"github.com/yourorg/taskboard/internal/service"
)

// CardHandler handles card endpoints
type CardHandler struct {
	cardService *service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(cardService *service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// CreateCardRequest represents a card create request. A client-sent position
// is accepted and ignored; new cards always append at the end of the list.
type CreateCardRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ListID      int64   `json:"listId"`
	Position    *int    `json:"position"`
	DueDate     *string `json:"dueDate"`
	Priority    string  `json:"priority"`
}

// UpdateCardRequest represents a card update request. Absent fields are left
// unchanged; an empty dueDate string clears the due date.
type UpdateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	ListID      *int64  `json:"listId"`
	Position    *int    `json:"position"`
}

// AssignRequest represents a card assignment request
type AssignRequest struct {
	AssignedUserID int64 `json:"assignedUserId"`
}

func parseDueDate(raw string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByList handles GET /api/cards/list/{listId}
func (h *CardHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	listID, err := pathID(r, "listId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	cards, err := h.cardService.ListByList(r.Context(), listID, callerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// Get handles GET /api/cards/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	card, err := h.cardService.Get(r.Context(), id, callerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// Create handles POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ListID <= 0 {
		writeError(w, http.StatusBadRequest, "listId is required")
		return
	}

	input := service.CreateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dueDate must be an RFC 3339 timestamp")
			return
		}
		input.DueDate = due
	}

	card, err := h.cardService.Create(r.Context(), req.ListID, callerID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.Int64("list_id", req.ListID),
	)

	writeJSON(w, http.StatusCreated, card)
}

// Update handles PUT /api/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		ListID:      req.ListID,
		Position:    req.Position,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "dueDate must be an RFC 3339 timestamp")
				return
			}
			input.DueDate = due
		}
	}

	card, err := h.cardService.Update(r.Context(), id, callerID, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	if err := h.cardService.Delete(r.Context(), id, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "card deleted"})
}

// Assign handles POST /api/cards/{id}/assign
func (h *CardHandler) Assign(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssignedUserID <= 0 {
		writeError(w, http.StatusBadRequest, "assignedUserId is required")
		return
	}

	if err := h.cardService.Assign(r.Context(), id, req.AssignedUserID, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info("user assigned to card",
		slog.Int64("card_id", id),
		slog.Int64("assignee_id", req.AssignedUserID),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "user assigned"})
}

// Unassign handles DELETE /api/cards/{id}/assign/{userId}
func (h *CardHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.cardService.Unassign(r.Context(), id, userID, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user unassigned"})
}
