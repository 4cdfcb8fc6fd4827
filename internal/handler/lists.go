package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/taskboard/internal/security/middleware"
	"github.com/yourorg/taskboard/internal/service"
)

// ListHandler handles list endpoints
type ListHandler struct {
	listService *service.ListService
	logger      *slog.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService, logger *slog.Logger) *ListHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ListHandler{
		listService: listService,
		logger:      logger,
	}
}

// CreateListRequest represents a list create request. A client-sent position
// is accepted and ignored; new lists always append at the end of the board.
type CreateListRequest struct {
	Title    string `json:"title"`
	BoardID  int64  `json:"boardId"`
	Position *int   `json:"position"`
}

// UpdateListRequest represents a list rename or reorder request. Absent
// fields are left unchanged.
type UpdateListRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

// ListByBoard handles GET /api/lists/board/{boardId}
func (h *ListHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	boardID, err := pathID(r, "boardId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}

	lists, err := h.listService.ListByBoard(r.Context(), boardID, callerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lists)
}

// Create handles POST /api/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	var req CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BoardID <= 0 {
		writeError(w, http.StatusBadRequest, "boardId is required")
		return
	}

	list, err := h.listService.Create(r.Context(), req.BoardID, callerID, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info("list created",
		slog.Int64("list_id", list.ID),
		slog.Int64("board_id", req.BoardID),
	)

	writeJSON(w, http.StatusCreated, list)
}

// Update handles PUT /api/lists/{id}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	var req UpdateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.listService.Update(r.Context(), id, callerID, req.Title, req.Position)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Delete handles DELETE /api/lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	if err := h.listService.Delete(r.Context(), id, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "list deleted"})
}
