package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dinemate/internal/core/domain/model/kernel"

	"github.com/sashabaranov/go-openai"
)

// ErrMessageIsRequired is returned when a turn arrives with an empty message.
var ErrMessageIsRequired = errors.New("message text is required")

const (
	defaultMaxToolIterations = 8
	defaultRequestTimeout    = 60 * time.Second
)

// OrchestratorConfig carries the dependencies and tuning knobs for the
// dialogue orchestrator. Zero values for the knobs select sane defaults.
type OrchestratorConfig struct {
	Logger     *slog.Logger
	Client     LLMClient
	Model      string
	Registry   *Registry
	Sessions   *SessionStore
	Summarizer *Summarizer

	// MaxToolIterations bounds how many model round-trips one user turn may
	// spend on tool calls before the orchestrator forces a final answer.
	MaxToolIterations int

	// RequestTimeout bounds each individual model call.
	RequestTimeout time.Duration
}

// Orchestrator drives one conversation turn: it sends the session history to
// the model, executes any tool calls the model requests, feeds the results
// back and repeats until the model produces a plain reply.
//
// Turns are atomic with respect to the conversation history: if the model
// becomes unreachable mid-turn, every message appended during the turn is
// rolled back so a retry starts clean. Cart changes made by already executed
// tools are kept; they are ordinary session state the user can inspect.
type Orchestrator struct {
	logger            *slog.Logger
	client            LLMClient
	model             string
	registry          *Registry
	sessions          *SessionStore
	summarizer        *Summarizer
	maxToolIterations int
	requestTimeout    time.Duration
	clock             func() time.Time
}

// NewOrchestrator creates the dialogue orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.MaxToolIterations <= 0 {
		cfg.MaxToolIterations = defaultMaxToolIterations
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &Orchestrator{
		logger:            cfg.Logger,
		client:            cfg.Client,
		model:             cfg.Model,
		registry:          cfg.Registry,
		sessions:          cfg.Sessions,
		summarizer:        cfg.Summarizer,
		maxToolIterations: cfg.MaxToolIterations,
		requestTimeout:    cfg.RequestTimeout,
		clock:             time.Now,
	}
}

// Sessions returns the underlying session store, e.g. for idle cleanup jobs.
func (o *Orchestrator) Sessions() *SessionStore {
	return o.sessions
}

// HandleMessage runs one conversation turn and returns the assistant's reply.
// Concurrent messages for the same session are serialized; different
// sessions proceed independently.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID kernel.UUID, text string) (string, error) {
	if text == "" {
		return "", ErrMessageIsRequired
	}
	if err := sessionID.Validate(); err != nil {
		return "", err
	}

	sess := o.sessions.GetOrCreate(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.touch(o.clock())
	o.summarizer.Compact(ctx, sess)

	checkpoint := len(sess.messages)
	sess.messages = append(sess.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	tools := o.registry.Definitions()
	for i := 0; i < o.maxToolIterations; i++ {
		msg, err := o.complete(ctx, sess, tools)
		if err != nil {
			sess.messages = sess.messages[:checkpoint]
			return "", err
		}

		sess.messages = append(sess.messages, msg)
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		o.runToolCalls(ctx, sess, msg.ToolCalls)
	}

	// The model kept asking for tools; force a final answer without them.
	msg, err := o.complete(ctx, sess, nil)
	if err != nil {
		sess.messages = sess.messages[:checkpoint]
		return "", err
	}

	// Nothing will answer tool calls on this path; drop any stray ones so
	// the stored history never carries an unanswered tool request.
	msg.ToolCalls = nil
	sess.messages = append(sess.messages, msg)
	return msg.Content, nil
}

func (o *Orchestrator) complete(
	ctx context.Context,
	sess *Session,
	tools []openai.Tool,
) (openai.ChatCompletionMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: o.buildMessages(sess),
		Tools:    tools,
	})
	if err != nil {
		o.logger.Error("model call failed", "session", sess.id.String(), "error", err)
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %s", ErrDialogueUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: empty response", ErrDialogueUnavailable)
	}

	return resp.Choices[0].Message, nil
}

func (o *Orchestrator) buildMessages(sess *Session) []openai.ChatCompletionMessage {
	system := systemPrompt
	if sess.summary != "" {
		system += "\n\nConversation summary so far:\n" + sess.summary
	}

	out := make([]openai.ChatCompletionMessage, 0, len(sess.messages)+1)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	return append(out, sess.messages...)
}

// runToolCalls executes the requested tools sequentially, in the order the
// model listed them, and appends one tool message per call. Broken
// invocations surface to the model as error payloads rather than killing
// the turn.
func (o *Orchestrator) runToolCalls(ctx context.Context, sess *Session, calls []openai.ToolCall) {
	for _, tc := range calls {
		result, err := o.registry.Execute(ctx, sess, tc.Function.Name, tc.Function.Arguments)
		if err != nil {
			o.logger.Warn("tool call failed",
				"session", sess.id.String(),
				"tool", tc.Function.Name,
				"error", err,
			)
			result, _ = errorPayload(err)
		}

		sess.messages = append(sess.messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    result,
			Name:       tc.Function.Name,
			ToolCallID: tc.ID,
		})
	}
}
