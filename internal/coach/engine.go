// Package coach generates life-coaching replies through a locally hosted
// chat model (Ollama's OpenAI-compatible endpoint).
package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultSystemPrompt is applied when the settings file carries no
// system_prompt of its own.
const DefaultSystemPrompt = `You are a friendly and thoughtful life coach.
Your goal is to help the user reflect, clarify objectives, and find actionable steps.
Rules:
- Use a conversational, empathetic tone.
- Ask 1-2 open-ended questions per reply.
- End with a micro-action the user can do within 24 hours.
- Keep answers under 120 words.
- Avoid medical, clinical, or psychological diagnoses.
- Always encourage self-reflection and autonomy.
Language: Italian.`

// Engine sends single-turn requests to the chat backend. No conversation
// history is kept or sent: each reply sees only the persona and the current
// user text. That statelessness is deliberate.
type Engine struct {
	client       openai.Client
	model        string
	systemPrompt string
	timeout      time.Duration
}

// New builds an Engine against an OpenAI-compatible base URL. Local Ollama
// ignores the API key but the client requires one.
func New(host, model, systemPrompt string, timeout time.Duration) *Engine {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	client := openai.NewClient(
		option.WithBaseURL(host),
		option.WithAPIKey("ollama"),
		option.WithMaxRetries(0), // failures surface to the loop, never retried
	)
	return &Engine{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
		timeout:      timeout,
	}
}

// Reply sends exactly two messages, system then user, and returns the
// trimmed content of the model's answer.
func (e *Engine) Reply(ctx context.Context, userText string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(e.systemPrompt),
			openai.UserMessage(userText),
		},
		Model: openai.ChatModel(e.model),
	})
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("chat completion: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no choices in response")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
