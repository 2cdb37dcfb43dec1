package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"inchat/internal/ai"
	"inchat/internal/app"
	"inchat/internal/transport/http/middleware"
	"inchat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	Message   string `json:"message"`
	SessionID uint   `json:"session_id"`
}

type MessageView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) NewChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	session, err := h.chatService.CreateSession(userID, "")
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("create chat session failed")
		response.ServerError(c, "create chat failed")
		return
	}

	response.OK(c, response.Envelope{"session_id": session.ID})
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	sessions, err := h.chatService.ListSessions(userID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("list chat sessions failed")
		response.ServerError(c, "list sessions failed")
		return
	}

	response.OK(c, response.Envelope{"sessions": sessions})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		UserID:    userID,
		SessionID: req.SessionID,
		Content:   req.Message,
	})
	if err != nil {
		var upstream *ai.UpstreamError
		switch {
		case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrSessionNotFound):
			response.Fail(c, err.Error())
		case errors.As(err, &upstream):
			// Surfaced as a plain failure envelope; the kind stays in the
			// error type for logs.
			log.Warn().Err(err).Str("kind", string(upstream.Kind)).Msg("completion api failed")
			response.Fail(c, err.Error())
		default:
			log.Error().Err(err).Uint("session_id", req.SessionID).Msg("send message failed")
			response.ServerError(c, "send message failed")
		}
		return
	}

	response.OK(c, response.Envelope{
		"response":  result.Response,
		"timestamp": result.Timestamp,
	})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	sessionID64, err := strconv.ParseUint(c.Param("session_id"), 10, 64)
	if err != nil || sessionID64 == 0 {
		response.Fail(c, "invalid session id")
		return
	}

	messages, err := h.chatService.GetMessages(userID, uint(sessionID64), 0)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Fail(c, err.Error())
		default:
			log.Error().Err(err).Uint64("session_id", sessionID64).Msg("get messages failed")
			response.ServerError(c, "get messages failed")
		}
		return
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, MessageView{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt.Format("15:04"),
		})
	}

	response.OK(c, response.Envelope{"messages": views})
}
