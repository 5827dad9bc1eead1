package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// AssessmentProvider produces qualitative feedback for a block of
// student-authored text. Implementations must respect the context
// deadline; the pipeline degrades to a placeholder on any error.
type AssessmentProvider interface {
	Assess(ctx context.Context, userText string) (*Assessment, error)
}

const assessmentSystemPrompt = "You are an experienced English education professional specializing in ESL/EFL teaching. " +
	"Provide constructive, specific, and encouraging feedback on English language usage. " +
	"Always respond with valid JSON in the exact format requested."

const assessmentPromptTemplate = `As an English educational professional, please provide a comprehensive assessment of the following English conversation practice. Analyze the user's language usage and provide constructive feedback.

CONVERSATION TO ASSESS:
%s

Please provide your assessment as a JSON object with the following exact structure:

{
  "performance_comment": "2-3 sentences commenting on their overall English performance, noting strengths and general language use",
  "correction": "2-3 sentences with specific corrections if needed, focusing on grammar, vocabulary, or pronunciation issues. If no major issues, mention what was done well",
  "improvement_areas": "2-3 sentences suggesting specific areas for improvement, such as grammar structures, vocabulary expansion, or communication strategies",
  "encouragement": "2-3 sentences of positive encouragement and motivation for continued learning"
}

Please be constructive, specific, and encouraging in your feedback. Focus on the educational value and language learning aspects. Return ONLY the JSON object, no other text.
`

// ChatCompletionProvider calls an OpenAI-compatible chat-completions
// endpoint (DeepSeek by default) to generate assessments.
type ChatCompletionProvider struct {
	client openai.Client
	model  string
}

// NewChatCompletionProvider creates a provider against the given
// OpenAI-compatible endpoint.
func NewChatCompletionProvider(apiKey, baseURL, model string) *ChatCompletionProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ChatCompletionProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Assess implements AssessmentProvider. A non-2xx response, transport
// failure, empty completion, or unparseable body all return an error;
// the caller owns the fallback.
func (p *ChatCompletionProvider) Assess(ctx context.Context, userText string) (*Assessment, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(assessmentSystemPrompt),
			openai.UserMessage(fmt.Sprintf(assessmentPromptTemplate, userText)),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(800),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("assessment request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("assessment response contained no choices")
	}

	assessment, mode, err := ParseAssessment(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if mode == ParsedHeuristic {
		LogDebug("assessment recovered from free-text response")
	}
	return assessment, nil
}
