package ai

import (
	"context"
	"fmt"
	"strings"
)

const assistantSystemPrompt = `You are a helpful assistant that guides about the app and answers general questions about studies. The app name is Quiz Hippo. It is an educational app where students can enroll, create quizzes on any topic via AI (using prompt, PDF, URL, or text). Students can set difficulty, question types (T/F, short answer, multiple choice, fill in the blanks, or mixed), language, and number of questions. Click 'generate quiz' and the quiz is ready. Quizzes can be shared with other students or teachers. Students can attempt quizzes, view results, performance, and correct answers. The AI name is Professor Hippo, who guides the user about the app. This app is for educational purposes only.`

// DefaultMaxTurns bounds how many user/assistant exchanges a session keeps.
const DefaultMaxTurns = 20

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionStore persists conversation history per session. The cache package
// provides a Redis-backed implementation with a TTL.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Save(ctx context.Context, sessionID string, history []Message) error
}

// Assistant answers study questions with conversation memory. History is
// keyed by session, not process-wide, and trimmed to maxTurns exchanges so
// a long-lived session cannot grow without bound.
type Assistant struct {
	client   Client
	store    SessionStore
	maxTurns int
}

func NewAssistant(client Client, store SessionStore, maxTurns int) *Assistant {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Assistant{
		client:   client,
		store:    store,
		maxTurns: maxTurns,
	}
}

func (a *Assistant) Chat(ctx context.Context, sessionID, query string) (string, error) {
	history, err := a.store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}

	history = append(history, Message{Role: RoleUser, Content: query})

	reply, err := a.client.Generate(ctx, buildConversationPrompt(history))
	if err != nil {
		return "", err
	}

	history = append(history, Message{Role: RoleAssistant, Content: reply})
	history = trimHistory(history, a.maxTurns)

	if err := a.store.Save(ctx, sessionID, history); err != nil {
		return "", fmt.Errorf("failed to save session %q: %w", sessionID, err)
	}
	return reply, nil
}

func buildConversationPrompt(history []Message) string {
	var b strings.Builder
	b.WriteString(assistantSystemPrompt)
	b.WriteString("\n")
	for _, msg := range history {
		b.WriteString("\n")
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// trimHistory keeps the most recent maxTurns exchanges (two messages per
// turn), dropping the oldest first.
func trimHistory(history []Message, maxTurns int) []Message {
	maxMessages := maxTurns * 2
	if len(history) <= maxMessages {
		return history
	}
	return history[len(history)-maxMessages:]
}
