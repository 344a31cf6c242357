package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/quillhq/quill-backend/internal/api/middleware"
	"github.com/quillhq/quill-backend/internal/entity"
	"github.com/quillhq/quill-backend/internal/pkg/logger"
	"github.com/quillhq/quill-backend/internal/pkg/response"
	"github.com/quillhq/quill-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// SendMessage handles POST /api/message - answer a question about a file
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			response.Error(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", entity.ErrInvalidField, typeErr.Field))
			return
		}
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx = logger.AddFields(ctx, zap.String("file_id", req.FileID))
	ctxzap.Info(ctx, "processing message", zap.Int("message_length", len(req.Message)))

	answer, err := h.usecase.SendMessage(ctx, user.ID, req.FileID, req.Message)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.SendMessageResponse{Response: answer})
}

// ListMessages handles GET /api/message - fetch conversation history for a file
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListMessages")

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	fileID := r.URL.Query().Get("fileId")
	if err := h.validator.ValidateListMessages(fileID); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "invalid field value: limit")
			return
		}
		limit = parsed
	}

	messages, err := h.usecase.ListMessages(ctx, user.ID, fileID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.ListMessagesResponse{Messages: toMessageDTOs(messages)})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrFileNotFound):
		response.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidField):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		// Downstream failures (DB, vector store, model) all surface the same
		// way; provider error text never reaches the client.
		ctxzap.Error(ctx, "request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
