package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inchat/internal/app"
	"inchat/internal/transport/http/response"
)

// KnowledgeHandler manages the knowledge base. The routes are deliberately
// left without an admin gate to match the observed behavior of the system
// being reimplemented; see DESIGN.md.
type KnowledgeHandler struct {
	knowledgeService *app.KnowledgeService
}

type AddDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Kind    string `json:"kind"`
	URL     string `json:"url"`
}

func NewKnowledgeHandler(knowledgeService *app.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

func (h *KnowledgeHandler) ListDocuments(c *gin.Context) {
	docs, err := h.knowledgeService.ListDocuments()
	if err != nil {
		log.Error().Err(err).Msg("list knowledge documents failed")
		response.ServerError(c, "list documents failed")
		return
	}

	response.OK(c, response.Envelope{"documents": docs})
}

func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request payload")
		return
	}

	_, err := h.knowledgeService.AddDocument(c.Request.Context(), app.AddDocumentInput{
		Title:   req.Title,
		Content: req.Content,
		Kind:    req.Kind,
		URL:     req.URL,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentInvalid):
			response.Fail(c, err.Error())
		default:
			log.Error().Err(err).Msg("add knowledge document failed")
			response.ServerError(c, "add document failed")
		}
		return
	}

	response.OK(c, nil)
}
