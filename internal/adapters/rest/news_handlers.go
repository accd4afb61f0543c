package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// NewsHandler отдает новостную ленту.
type NewsHandler struct {
	newsUC    usecases_port.GetNewsUseCase
	articleUC usecases_port.GetNewsArticleUseCase
}

func NewNewsHandler(newsUC usecases_port.GetNewsUseCase, articleUC usecases_port.GetNewsArticleUseCase) *NewsHandler {
	return &NewsHandler{
		newsUC:    newsUC,
		articleUC: articleUC,
	}
}

// GetNews обрабатывает GET /api/v1/news
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetNews"})
	logger.Info("Processing request to get news", nil)

	articles, err := h.newsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Get news use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get news")
		return
	}

	response := make([]NewsArticleResponse, len(articles))
	for i, a := range articles {
		response[i] = toNewsArticleResponse(a)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetNewsArticle обрабатывает GET /api/v1/news/{articleID}
func (h *NewsHandler) GetNewsArticle(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetNewsArticle"})

	articleID := chi.URLParam(r, "articleID")
	if articleID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Article ID is required")
		return
	}

	article, err := h.articleUC.Execute(r.Context(), articleID)
	if err != nil {
		logger.Error("Get news article use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get news article")
		return
	}
	if article == nil {
		WriteJSONError(w, http.StatusNotFound, "Article not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, toNewsArticleResponse(*article))
}
