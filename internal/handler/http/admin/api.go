package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/pathutil"
	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

// writeAPIError maps a use case error to a JSON error response.
func writeAPIError(w http.ResponseWriter, err error) {
	if vErr, ok := entity.AsValidationError(err); ok {
		respond.ValidationFailed(w, vErr)
		return
	}
	switch {
	case errors.Is(err, newsUC.ErrDuplicateSlug):
		respond.SafeError(w, http.StatusConflict, err)
	case errors.Is(err, newsUC.ErrNewsNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.Is(err, newsUC.ErrInvalidNewsID):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// CreateHandler creates an item from a JSON body.
type CreateHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース作成
// @Summary      ニュース作成
// @Description  ニュース記事を作成します。status を省略すると draft になります
// @Tags         admin
// @Security     SessionCookie
// @Accept       json
// @Produce      json
// @Param        news body createRequest true "ニュース記事"
// @Success      201 {object} DTO "Created"
// @Failure      400 {object} respond.ErrorBody "Bad request - invalid JSON body"
// @Failure      401 {object} respond.ErrorBody "Authentication required"
// @Failure      409 {object} respond.ErrorBody "Slug already in use"
// @Failure      422 {object} respond.ErrorBody "Validation failed"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/news [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	n, err := h.Svc.Create(r.Context(), entity.NewsInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Summary:     req.Summary,
		Content:     req.Content,
		Tags:        req.Tags,
		Status:      entity.Status(req.Status),
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(n))
}

// UpdateHandler applies a partial update from a JSON body.
type UpdateHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース部分更新
// @Summary      ニュース部分更新
// @Description  指定したフィールドだけを更新します。省略したフィールドは変更しません
// @Tags         admin
// @Security     SessionCookie
// @Accept       json
// @Produce      json
// @Param        id path string true "ニュースID" format(uuid)
// @Param        patch body patchRequest true "更新するフィールド"
// @Success      200 {object} DTO "OK"
// @Failure      400 {object} respond.ErrorBody "Bad request - invalid ID or JSON body"
// @Failure      401 {object} respond.ErrorBody "Authentication required"
// @Failure      404 {object} respond.ErrorBody "Not found - news not found"
// @Failure      409 {object} respond.ErrorBody "Slug already in use"
// @Failure      422 {object} respond.ErrorBody "Validation failed"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /admin/news/{id} [patch]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	n, err := h.Svc.Update(r.Context(), id, req.toPatch())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}
