// Package anthropic implements structured generation on the Claude Messages API.
// The response schema is rendered into the system prompt and the reply is
// expected to be bare JSON.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/logger"
	"github.com/spigell/candidate-sourcer/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultModel        = "claude-sonnet-4-20250514"
	defaultMaxTokens    = 2048
	defaultMaxLogLength = 200
)

type messagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Generator implements ai.StructuredGenerator with Claude.
type Generator struct {
	messages  messagesClient
	model     string
	maxTokens int64
	maxLogLen int
	logger    *zap.Logger
}

// Options configure a Generator.
type Options struct {
	Model        string
	MaxTokens    int
	MaxRetries   int
	MaxLogLength int
}

// NewGenerator builds a Claude-backed generator.
func NewGenerator(apiKey string, opts Options, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.MaxRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(opts.MaxRetries))
	}

	client := sdk.NewClient(reqOpts...)
	return newGenerator(&client.Messages, opts, logger), nil
}

func newGenerator(messages messagesClient, opts Options, log *zap.Logger) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Generator{
		messages:  messages,
		model:     model,
		maxTokens: maxTokens,
		maxLogLen: maxLogLen,
		logger:    logger.ForGenerator(log, "anthropic", model),
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

// Generate sends the conversation and returns the text of the reply.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	turns := ai.CleanTurns(req.Turns)
	if len(turns) == 0 {
		return "", errors.New("conversation must not be empty")
	}

	system, err := systemPrompt(req)
	if err != nil {
		return "", err
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages:  toMessages(turns),
	}

	g.logger.Debug("claude messages request",
		zap.String("output", req.Name),
		zap.Int("turns", len(turns)),
		zap.String("last_turn_preview", utils.TruncateForLog(turns[len(turns)-1].Content, g.maxLogLen)),
	)

	msg, err := g.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	output := replyText(msg)
	if output == "" {
		return "", errors.New("claude returned empty response")
	}

	g.logger.Debug("claude messages response",
		zap.String("output", req.Name),
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

func systemPrompt(req ai.Request) (string, error) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(req.System))

	if req.Schema != nil {
		schema, err := json.MarshalIndent(req.Schema, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal response schema: %w", err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Respond with a single JSON value and nothing else. It must match this JSON schema:\n")
		b.Write(schema)
	}

	return b.String(), nil
}

func toMessages(turns []ai.Turn) []sdk.MessageParam {
	messages := make([]sdk.MessageParam, 0, len(turns))
	for _, turn := range turns {
		role := sdk.MessageParamRoleUser
		if turn.Role == ai.RoleAssistant {
			role = sdk.MessageParamRoleAssistant
		}
		messages = append(messages, sdk.MessageParam{
			Role: role,
			Content: []sdk.ContentBlockParamUnion{{
				OfText: &sdk.TextBlockParam{Text: turn.Content},
			}},
		})
	}
	return messages
}

func replyText(msg *sdk.Message) string {
	if msg == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Content {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String())
}
