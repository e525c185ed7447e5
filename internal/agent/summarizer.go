package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Summarizer compacts long conversations into a running summary so the
// context sent to the model stays bounded. Summaries are append-only: the
// existing summary is preserved verbatim and new facts are added after it.
//
// Confirmed orders are additionally guarded mechanically: if the model drops
// an "Order N" fact from the summary, the fact is re-appended before the
// summary is stored. A forgetful summary must never lose a placed order.
type Summarizer struct {
	logger     *slog.Logger
	client     LLMClient
	model      string
	threshold  int
	keepRecent int
}

// NewSummarizer creates a summarizer that compacts a session once its
// retained history reaches threshold messages, keeping the keepRecent
// most recent messages verbatim.
func NewSummarizer(logger *slog.Logger, client LLMClient, model string, threshold, keepRecent int) *Summarizer {
	return &Summarizer{
		logger:     logger,
		client:     client,
		model:      model,
		threshold:  threshold,
		keepRecent: keepRecent,
	}
}

// Compact folds the session's older messages into the running summary.
// The caller must hold the session lock. A failed summarization is not an
// error: the session simply keeps its full history until the next attempt.
func (s *Summarizer) Compact(ctx context.Context, sess *Session) {
	if s.threshold <= 0 || len(sess.messages) < s.threshold {
		return
	}
	if s.keepRecent >= len(sess.messages) {
		return
	}

	cut := len(sess.messages) - s.keepRecent
	older := sess.messages[:cut]

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizePrompt},
			{Role: openai.ChatMessageRoleUser, Content: s.buildInput(sess.summary, older)},
		},
	})
	if err != nil {
		s.logger.Warn("conversation summarization failed, keeping full history",
			"session", sess.id.String(), "error", err)
		return
	}
	if len(resp.Choices) == 0 {
		s.logger.Warn("conversation summarization returned no choices, keeping full history",
			"session", sess.id.String())
		return
	}

	summary := resp.Choices[0].Message.Content
	summary = s.restoreConfirmedOrders(summary, sess.ConfirmedOrders())

	sess.summary = summary
	sess.messages = append([]openai.ChatCompletionMessage(nil), sess.messages[cut:]...)

	s.logger.Info("conversation compacted",
		"session", sess.id.String(),
		"folded", cut,
		"kept", s.keepRecent,
	)
}

func (s *Summarizer) buildInput(existingSummary string, older []openai.ChatCompletionMessage) string {
	var b strings.Builder
	b.WriteString("Existing summary (append to this if present):\n")
	if existingSummary == "" {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(existingSummary)
		b.WriteString("\n")
	}

	b.WriteString("\nConversation:\n")
	for _, m := range older {
		if m.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}

// restoreConfirmedOrders re-appends any confirmed-order fact the model
// dropped from the summary.
func (s *Summarizer) restoreConfirmedOrders(summary string, confirmed []ConfirmedOrder) string {
	for _, c := range confirmed {
		key := fmt.Sprintf("Order %d", c.ID)
		if strings.Contains(summary, key) {
			continue
		}
		summary = strings.TrimRight(summary, "\n") + "\n- " + c.Fact
	}
	return summary
}
