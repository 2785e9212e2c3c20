package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitzone-api/internal/domain"
	"fitzone-api/internal/logging"
)

const (
	defaultMaxMessage      = 300
	defaultMaxTurns        = 50
	defaultTranscriptLimit = 100
)

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type FAQLister interface {
	ListFAQs(ctx context.Context) ([]domain.KnowledgeEntry, error)
}

type TranscriptStore interface {
	GetConversationTurnCount(ctx context.Context, conversationID string) (int, error)
	GetTranscript(ctx context.Context, conversationID string, limit int) ([]domain.ChatMessage, error)
	AppendTurn(ctx context.Context, conversationID string, user, bot domain.ChatMessage, turns int) error
}

type ChatConfig struct {
	MaxMessageLen   int
	MaxTurns        int
	TranscriptLimit int
}

type ChatService struct {
	faqs        FAQLister
	transcripts TranscriptStore
	params      ParamGetter
	paramPrefix string
	cfg         ChatConfig

	cacheMu     sync.RWMutex
	cacheLoaded bool
	greeting    string
}

type SendInput struct {
	Message        string
	ConversationID string
}

type SendOutput struct {
	ConversationID string
	Reply          domain.ChatMessage
}

type StartOutput struct {
	ConversationID string
	Greeting       domain.ChatMessage
}

func NewChatService(faqs FAQLister, transcripts TranscriptStore, p ParamGetter, paramPrefix string, cfg ChatConfig) (*ChatService, error) {
	if faqs == nil {
		return nil, errors.New("usecase: faq lister must not be nil")
	}
	if transcripts == nil {
		return nil, errors.New("usecase: transcript store must not be nil")
	}
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if cfg.MaxMessageLen <= 0 {
		cfg.MaxMessageLen = defaultMaxMessage
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	if cfg.TranscriptLimit <= 0 {
		cfg.TranscriptLimit = defaultTranscriptLimit
	}
	return &ChatService{
		faqs:        faqs,
		transcripts: transcripts,
		params:      p,
		paramPrefix: paramPrefix,
		cfg:         cfg,
	}, nil
}

// Start opens a conversation and returns its greeting.
func (s *ChatService) Start(ctx context.Context) StartOutput {
	return StartOutput{
		ConversationID: newUUID(),
		Greeting: domain.ChatMessage{
			ID:   "greeting",
			Role: domain.RoleBot,
			Text: s.loadGreeting(ctx),
		},
	}
}

// Send answers one user message and records the turn. Only invalid input
// and the per-conversation turn cap are reported as errors; store failures
// degrade to fallback-only answers or an unrecorded turn.
func (s *ChatService) Send(ctx context.Context, in SendInput) (SendOutput, error) {
	log := logging.FromContext(ctx)

	text := strings.TrimSpace(in.Message)
	if text == "" {
		return SendOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}
	if utf8.RuneCountInString(text) > s.cfg.MaxMessageLen {
		return SendOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}

	convID := strings.TrimSpace(in.ConversationID)
	existingTurns := 0
	if convID == "" {
		convID = newUUID()
	} else {
		n, err := s.transcripts.GetConversationTurnCount(ctx, convID)
		if err != nil {
			log.Warn("turn count unavailable", zap.String("conversation_id", convID), zap.Error(err))
		} else {
			existingTurns = n
		}
		if existingTurns >= s.cfg.MaxTurns {
			return SendOutput{}, newError(ErrorInvalidInput, "conversation_turn_limit", nil)
		}
	}

	known, err := s.faqs.ListFAQs(ctx)
	if err != nil {
		log.Warn("faq list unavailable, answering from built-in rules", zap.Error(err))
		known = nil
	}

	user := domain.ChatMessage{ID: "user-" + newUUID(), Role: domain.RoleUser, Text: text}
	bot := domain.ChatMessage{ID: "bot-" + newUUID(), Role: domain.RoleBot, Text: Respond(text, known)}

	if err := s.transcripts.AppendTurn(ctx, convID, user, bot, existingTurns+1); err != nil {
		if errors.Is(err, domain.ErrTurnConflict) {
			log.Warn("concurrent turn not recorded", zap.String("conversation_id", convID), zap.Int("turn", existingTurns+1))
		} else {
			log.Warn("transcript write failed", zap.String("conversation_id", convID), zap.Error(err))
		}
	}

	return SendOutput{ConversationID: convID, Reply: bot}, nil
}

// Transcript returns the recorded messages of a conversation, oldest first.
func (s *ChatService) Transcript(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	convID := strings.TrimSpace(conversationID)
	if convID == "" {
		return nil, newError(ErrorInvalidInput, "empty_conversation_id", nil)
	}
	msgs, err := s.transcripts.GetTranscript(ctx, convID, s.cfg.TranscriptLimit)
	if err != nil {
		logging.FromContext(ctx).Warn("transcript read failed", zap.String("conversation_id", convID), zap.Error(err))
		return []domain.ChatMessage{}, nil
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

func (s *ChatService) loadGreeting(ctx context.Context) string {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		g := s.greeting
		s.cacheMu.RUnlock()
		return g
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return s.greeting
	}

	g, err := s.params.GetParameter(ctx, s.paramPrefix+"/chat/greeting")
	if err != nil {
		// Not cached, so the next conversation retries.
		logging.FromContext(ctx).Warn("greeting parameter unavailable", zap.Error(err))
		return DefaultGreeting
	}
	g = strings.TrimSpace(g)
	if g == "" {
		g = DefaultGreeting
	}
	s.greeting = g
	s.cacheLoaded = true
	return g
}

var newUUID = func() string {
	return uuid.NewString()
}
