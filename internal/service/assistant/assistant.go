package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/safetrip/backend/internal/analysis/intent"
	"github.com/safetrip/backend/internal/metrics"
	"github.com/safetrip/backend/internal/model/chat"
	"github.com/safetrip/backend/internal/model/helpline"
	"github.com/safetrip/backend/internal/service/ai"
	"github.com/safetrip/backend/internal/service/weather"
	applog "github.com/safetrip/backend/pkg/log"
	"github.com/safetrip/backend/pkg/render"
)

const (
	// GreetingReply answers any greeting token without calling the model.
	GreetingReply = "👋 Hi! I'm your AI travel safety chatbot. Type the name of any Indian city to get weather, safety tips, local languages, and helpline numbers!"
	// FallbackReply replaces the generated text when generation fails.
	FallbackReply = "⚠️ AI response failed. Please try again later."
)

var (
	ErrEmptyMessage = errors.New("message is required")
	errNoGenerator  = errors.New("ai service unavailable")
)

// Transcript is the session store the assistant appends to.
type Transcript interface {
	SaveMessage(ctx context.Context, message chat.Message) (chat.Message, error)
}

// WeatherLookup resolves current conditions for a city.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string) weather.Result
}

// Options tunes the assembler.
type Options struct {
	// EmergencyOnUnresolved adds the helpline line to safety answers even
	// when no city was extracted.
	EmergencyOnUnresolved bool
	Metrics               *metrics.Collectors
	Now                   func() time.Time
}

// Reply is the outcome of one submission.
type Reply struct {
	Kind        intent.Kind    `json:"kind"`
	City        string         `json:"city,omitempty"`
	UserMessage chat.Message   `json:"userMessage"`
	Messages    []chat.Message `json:"messages"`
	// Notice is a transient error shown to the user; it is not stored.
	Notice string `json:"notice,omitempty"`
}

// Service handles one user submission at a time per call.
type Service struct {
	transcript Transcript
	weather    WeatherLookup
	generator  ai.Generator
	helplines  helpline.Store
	opts       Options
}

// NewService wires the assistant. generator may be nil, in which case every
// generation takes the fallback path.
func NewService(transcript Transcript, lookup WeatherLookup, generator ai.Generator, helplines helpline.Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		transcript: transcript,
		weather:    lookup,
		generator:  generator,
		helplines:  helplines,
		opts:       opts,
	}
}

// Handle processes text for sessionID and appends the user message and the
// bot replies to the transcript.
func (s *Service) Handle(ctx context.Context, sessionID, text string) (*Reply, error) {
	return s.HandleStream(ctx, sessionID, text, nil)
}

// HandleStream is Handle with emit called for each stored bot message, in
// transcript order, as soon as it is stored.
func (s *Service) HandleStream(ctx context.Context, sessionID, text string, emit func(chat.Message)) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	ctx = applog.WithSession(ctx, sessionID)
	logger := applog.WithCtx(ctx)
	now := s.opts.Now()

	userMsg, err := s.transcript.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    chat.SenderUser,
		Text:      text,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	kind := intent.Classify(text)
	s.opts.Metrics.ObserveClassification(kind.String())
	logger.Info("classified submission", zap.String("kind", kind.String()))

	reply := &Reply{Kind: kind, UserMessage: userMsg}
	appendBot := func(body string) error {
		stored, err := s.transcript.SaveMessage(ctx, chat.Message{
			SessionID: sessionID,
			Sender:    chat.SenderBot,
			Text:      body,
			HTML:      render.Markdown(body),
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("save bot message: %w", err)
		}
		reply.Messages = append(reply.Messages, stored)
		if emit != nil {
			emit(stored)
		}
		return nil
	}

	if kind == intent.Greeting {
		if err := appendBot(GreetingReply); err != nil {
			return nil, err
		}
		return reply, nil
	}

	candidate, extracted := cityCandidate(kind, text)

	var (
		resolvedCity   string
		weatherContext string
	)
	if candidate != "" {
		result := s.lookupWeather(ctx, candidate)
		if err := appendBot(result.Display()); err != nil {
			return nil, err
		}
		if result.OK() {
			weatherContext = result.Display()
		}
		if extracted || result.OK() {
			resolvedCity = candidate
		}
	}
	reply.City = resolvedCity

	prompt, _ := ai.BuildPrompt(ai.PromptInput{
		Kind:    kind,
		Query:   text,
		City:    resolvedCity,
		Weather: weatherContext,
	})

	answer, genErr := s.generate(ctx, prompt)
	if genErr != nil {
		logger.Warn("generation failed, using fallback reply", zap.Error(genErr))
		reply.Notice = fmt.Sprintf("❌ AI service error: %v", genErr)
		answer = FallbackReply
	}

	if s.wantsEmergencyLine(kind, resolvedCity) {
		var language string
		if resolvedCity != "" && genErr == nil {
			language = s.localLanguage(ctx, resolvedCity)
		}
		if err := appendBot(helpline.FormatEmergencyLine(s.helplines.List(), language)); err != nil {
			return nil, err
		}
	}

	if err := appendBot(answer); err != nil {
		return nil, err
	}
	return reply, nil
}

// cityCandidate returns the text to look weather up for, and whether it was
// extracted from a safety question.
func cityCandidate(kind intent.Kind, text string) (string, bool) {
	switch kind {
	case intent.SafetyQuestion:
		return intent.ExtractCity(text)
	case intent.BareCityCandidate:
		return text, false
	default:
		return "", false
	}
}

func (s *Service) wantsEmergencyLine(kind intent.Kind, resolvedCity string) bool {
	if resolvedCity != "" {
		return true
	}
	return kind == intent.SafetyQuestion && s.opts.EmergencyOnUnresolved
}

func (s *Service) lookupWeather(ctx context.Context, city string) weather.Result {
	if s.weather == nil {
		return weather.Result{City: city, Err: weather.ErrUnavailable}
	}
	result := s.weather.Lookup(ctx, city)
	s.opts.Metrics.ObserveWeather(result.OK())
	return result
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", errNoGenerator
	}
	text, err := s.generator.Generate(ctx, prompt)
	s.opts.Metrics.ObserveGeneration(err == nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// localLanguage is best effort; the helpline line is sent without it on failure.
func (s *Service) localLanguage(ctx context.Context, city string) string {
	text, err := s.generate(ctx, ai.LanguagePrompt(city))
	if err != nil {
		applog.WithCtx(ctx).Warn("language lookup failed", zap.String("city", city), zap.Error(err))
		return ""
	}
	return ai.CleanLanguage(text)
}
