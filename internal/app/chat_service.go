package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"inchat/internal/ai"
	"inchat/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageEmpty    = errors.New("message and session are required")
)

const systemPreamble = `You are inchat, a virtual assistant for a university.
Use the following knowledge base information to answer:

%s

Answer in a helpful and friendly way, based on the information provided.`

type ChatSessionStore interface {
	Create(session *model.ChatSession) error
	ListByUserID(userID uint) ([]model.ChatSession, error)
	GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error)
}

type MessageStore interface {
	Create(message *model.Message) error
	ListBySessionID(sessionID uint, limit int) ([]model.Message, error)
	ListRecentBySessionID(sessionID uint, limit int) ([]model.Message, error)
}

// ContextAssembler produces the knowledge block injected into the system
// prompt, plus the number of documents it contains.
type ContextAssembler interface {
	BuildContext(ctx context.Context) (string, int, error)
}

// TurnAuditPublisher receives one audit event per completed turn. Publishing
// is fire and forget: a broker failure never fails the chat request.
type TurnAuditPublisher interface {
	Publish(ctx context.Context, entry model.TurnLog) error
}

// Completer is the upstream completion API.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

type ChatService struct {
	sessionRepo ChatSessionStore
	messageRepo MessageStore
	knowledge   ContextAssembler
	auditor     TurnAuditPublisher
	llmClient   Completer
	llmConfig   ai.ChatConfig
	maxContext  int
}

type SendMessageInput struct {
	UserID    uint
	SessionID uint
	Content   string
}

type SendMessageResult struct {
	Response  string
	Timestamp string
}

func NewChatService(
	sessionRepo ChatSessionStore,
	messageRepo MessageStore,
	knowledge ContextAssembler,
	auditor TurnAuditPublisher,
	llmClient Completer,
	llmConfig ai.ChatConfig,
	maxContext int,
) *ChatService {
	if maxContext <= 0 {
		maxContext = 20
	}
	return &ChatService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		knowledge:   knowledge,
		auditor:     auditor,
		llmClient:   llmClient,
		llmConfig:   llmConfig,
		maxContext:  maxContext,
	}
}

func (s *ChatService) CreateSession(userID uint, title string) (*model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "New Chat"
	}

	session := &model.ChatSession{
		UserID: userID,
		Title:  title,
		Active: true,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(userID uint) ([]model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

// SendMessage runs one conversational turn: persist the user message, build
// the prompt from the knowledge context and recent history, call the
// completion API, persist the assistant reply. Strictly sequential; both
// messages are written synchronously so their order within the session holds.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.UserID == 0 || input.SessionID == 0 {
		return nil, ErrMessageEmpty
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	started := time.Now()

	userMessage := &model.Message{
		SessionID: input.SessionID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(userMessage); err != nil {
		return nil, err
	}

	contextBlock, contextDocs, err := s.knowledge.BuildContext(ctx)
	if err != nil {
		return nil, err
	}

	promptMessages, historyUsed, err := s.buildPromptMessages(input.SessionID, contextBlock, content)
	if err != nil {
		return nil, err
	}

	assistantContent, err := s.llmClient.Complete(ctx, s.llmConfig, promptMessages)
	if err != nil {
		return nil, err
	}
	assistantContent = strings.TrimSpace(assistantContent)
	if assistantContent == "" {
		assistantContent = "The model returned an empty response."
	}

	assistantMessage := &model.Message{
		SessionID: input.SessionID,
		Role:      model.RoleAssistant,
		Content:   assistantContent,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(assistantMessage); err != nil {
		return nil, err
	}

	s.publishTurnAudit(ctx, input, promptMessages, assistantContent, contextDocs, historyUsed, started)

	return &SendMessageResult{
		Response:  assistantContent,
		Timestamp: time.Now().Format("15:04"),
	}, nil
}

func (s *ChatService) GetMessages(userID, sessionID uint, limit int) ([]model.Message, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.messageRepo.ListBySessionID(sessionID, limit)
}

// buildPromptMessages returns the ordered upstream request: system preamble
// with the knowledge block, then the recent history oldest first, then the
// current user input. The just-persisted user message is the newest history
// entry and is dropped so it does not appear twice.
func (s *ChatService) buildPromptMessages(sessionID uint, contextBlock, currentUserInput string) ([]ai.ChatMessage, int, error) {
	recent, err := s.messageRepo.ListRecentBySessionID(sessionID, s.maxContext)
	if err != nil {
		return nil, 0, err
	}
	if len(recent) > 0 {
		recent = recent[:len(recent)-1]
	}

	messages := make([]ai.ChatMessage, 0, len(recent)+2)
	messages = append(messages, ai.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPreamble, contextBlock),
	})
	for _, item := range recent {
		role := item.Role
		if role != model.RoleAssistant {
			role = model.RoleUser
		}
		messages = append(messages, ai.ChatMessage{
			Role:    role,
			Content: item.Content,
		})
	}
	messages = append(messages, ai.ChatMessage{
		Role:    model.RoleUser,
		Content: currentUserInput,
	})
	return messages, len(recent), nil
}

func (s *ChatService) publishTurnAudit(
	ctx context.Context,
	input SendMessageInput,
	promptMessages []ai.ChatMessage,
	reply string,
	contextDocs, historyUsed int,
	started time.Time,
) {
	if s.auditor == nil {
		return
	}

	promptChars := 0
	for _, m := range promptMessages {
		promptChars += len(m.Content)
	}

	entry := model.TurnLog{
		SessionID:   input.SessionID,
		UserID:      input.UserID,
		Model:       s.llmConfig.Model,
		PromptChars: promptChars,
		ReplyChars:  len(reply),
		ContextDocs: contextDocs,
		HistoryUsed: historyUsed,
		DurationMS:  time.Since(started).Milliseconds(),
		CreatedAt:   time.Now(),
	}
	if err := s.auditor.Publish(ctx, entry); err != nil {
		log.Warn().Err(err).Uint("session_id", input.SessionID).Msg("publish turn audit failed")
	}
}
