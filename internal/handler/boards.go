package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/taskboard/internal/security/middleware"
	"github.com/yourorg/taskboard/internal/service"
)

// BoardHandler handles board endpoints
type BoardHandler struct {
	boardService *service.BoardService
	logger       *slog.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *service.BoardService, logger *slog.Logger) *BoardHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// BoardRequest represents a board create or rename request
type BoardRequest struct {
	Title string `json:"title"`
}

// List handles GET /api/boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	boards, err := h.boardService.List(r.Context(), callerID)
	if err != nil {
		h.logger.Error("failed to list boards", slog.String("error", err.Error()))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, boards)
}

// Get handles GET /api/boards/{id}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}

	board, err := h.boardService.Get(r.Context(), id, callerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// Create handles POST /api/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	var req BoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := h.boardService.Create(r.Context(), callerID, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info("board created",
		slog.Int64("board_id", board.ID),
		slog.Int64("user_id", callerID),
	)

	writeJSON(w, http.StatusCreated, board)
}

// Update handles PUT /api/boards/{id}
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}

	var req BoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := h.boardService.Update(r.Context(), id, callerID, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// Delete handles DELETE /api/boards/{id}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}

	if err := h.boardService.Delete(r.Context(), id, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info("board deleted",
		slog.Int64("board_id", id),
		slog.Int64("user_id", callerID),
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "board deleted"})
}
