package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"
	"github.com/Raj-Kharwar-26/upi-app/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	uc     *usecase.TransactionUsecase
	logger *zap.Logger
}

func NewTransactionHandler(uc *usecase.TransactionUsecase, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: logger,
	}
}

// HandleCreate handles POST /api/transactions.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.uc.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

// HandleGet handles GET /api/transactions/{id}.
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := h.uc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

// HandleConfirm handles POST /api/transactions/{id}/confirm.
func (h *TransactionHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, instruction, err := h.uc.Confirm(r.Context(), id, req.Mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"instruction": instruction,
	})
}

// HandleStatus handles GET /api/transactions/{id}/status.
func (h *TransactionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := h.uc.GetStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, status)
}

// HandleList handles GET /api/transactions.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := usecase.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = v
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		offset = v
	}

	result, err := h.uc.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]any{
		"transactions": result.Transactions,
		"total":        result.Total,
		"limit":        result.Limit,
		"offset":       result.Offset,
	})
}

// writeError maps domain errors onto the external status codes.
func (h *TransactionHandler) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr   *domain.ValidationError
		notFoundErr     *domain.NotFoundError
		invalidStateErr *domain.InvalidStateError
	)

	switch {
	case errors.As(err, &validationErr):
		h.sendError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		h.sendError(w, http.StatusNotFound, "Transaction not found")
	case errors.As(err, &invalidStateErr):
		h.sendError(w, http.StatusBadRequest, "Transaction already processed")
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *TransactionHandler) sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *TransactionHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	h.sendJSON(w, statusCode, map[string]any{"error": message})
}
