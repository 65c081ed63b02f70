package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks textbook-ai/internal/rag LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks -mock_names=Engine=MockEngine textbook-ai/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"textbook-ai/internal/contextutil"
	"textbook-ai/internal/llm"
	"textbook-ai/internal/vectorstore"
)

const (
	answerTemperature      = 0.7
	answerMaxTokens        = 1000
	personalizeTemperature = 0.7
	personalizeMaxTokens   = 2000
	translateTemperature   = 0.5
	translateMaxTokens     = 2000

	// sourceExcerptLen is the provenance excerpt length in characters.
	sourceExcerptLen = 200

	// defaultExperience applies when a profile level is blank at this layer.
	// The retriever has no such default; the asymmetry is deliberate.
	defaultExperience = "intermediate"
)

// LLMClient is the generation provider boundary, defined from the engine's
// perspective. Implemented by llm.Client.
type LLMClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Engine provides retrieval-augmented answering, content personalization,
// and translation over the same generation provider.
type Engine interface {
	// Ask answers a question. When selectedText is non-empty, retrieval is
	// constrained to chunks containing the highlighted passage.
	Ask(ctx context.Context, question, selectedText string, profile *Profile) (Answer, error)

	// Personalize rewrites content to match the reader's experience levels.
	Personalize(ctx context.Context, content string, profile Profile) (string, error)

	// Translate translates content to Urdu, keeping technical terms in English.
	Translate(ctx context.Context, content string) (string, error)
}

// engine implements Engine. It is stateless beyond its long-lived client
// handles and safe for concurrent use.
type engine struct {
	retriever *Retriever
	llmClient LLMClient
}

// NewEngine creates a new Engine.
func NewEngine(retriever *Retriever, llmClient LLMClient) Engine {
	return &engine{
		retriever: retriever,
		llmClient: llmClient,
	}
}

// Ask answers a question using retrieval-augmented generation.
func (e *engine) Ask(ctx context.Context, question, selectedText string, profile *Profile) (Answer, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		chunks []vectorstore.SearchResult
		err    error
	)
	if selectedText != "" {
		chunks, err = e.retriever.SearchSelection(ctx, selectedText, SelectionResultLimit)
	} else {
		chunks, err = e.retriever.Search(ctx, question, DefaultSearchLimit)
	}
	if err != nil {
		return Answer{}, err
	}

	answer, err := e.generateAnswer(ctx, question, chunks, profile)
	if err != nil {
		return Answer{}, err
	}

	sources := make([]Source, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, Source{
			Text:     excerpt(chunk.Text, sourceExcerptLen),
			Score:    chunk.Score,
			Metadata: chunk.Meta,
		})
	}

	logger.InfoContext(ctx, "question answered",
		"question_length", len(question),
		"selection", selectedText != "",
		"chunks_used", len(chunks),
		"answer_length", len(answer),
	)

	return Answer{Answer: answer, Sources: sources}, nil
}

// generateAnswer assembles the prompt from retrieved context and the user
// profile and calls the generation provider. An empty context set is valid
// input; the prompt instructs the model to state insufficiency.
func (e *engine) generateAnswer(ctx context.Context, question string, chunks []vectorstore.SearchResult, profile *Profile) (string, error) {
	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		source := "Unknown"
		if s, ok := chunk.Meta["source"].(string); ok && s != "" {
			source = s
		}
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", source, chunk.Text))
	}
	contextBlock := strings.Join(blocks, "\n\n")

	systemPrompt := "You are an expert AI assistant for a Physical AI & Humanoid Robotics textbook."
	if profile != nil {
		systemPrompt += fmt.Sprintf(
			"\n\nThe user has %s software experience and %s hardware experience. Tailor your explanations accordingly.",
			orDefault(profile.SoftwareExperience), orDefault(profile.HardwareExperience),
		)
	}

	userPrompt := fmt.Sprintf(`Based on the following context from the textbook, answer the question.

Context:
%s

Question: %s

Provide a clear, comprehensive answer based on the context. If the context doesn't contain enough information, say so.`, contextBlock, question)

	answer, err := e.llmClient.ChatWithMessages(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.ChatParams{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}

// Personalize rewrites educational content for the reader's experience levels,
// preserving structure and main points.
func (e *engine) Personalize(ctx context.Context, content string, profile Profile) (string, error) {
	prompt := fmt.Sprintf(`Rewrite the following educational content to match the reader's experience level:
- Software Experience: %s
- Hardware Experience: %s

Original Content:
%s

Rewrite the content to be appropriate for this experience level. Adjust technical depth, add or remove explanations, and modify examples as needed. Keep the same structure and main points.`,
		orDefault(profile.SoftwareExperience), orDefault(profile.HardwareExperience), content)

	rewritten, err := e.llmClient.ChatWithMessages(ctx, []llm.Message{
		{Role: "system", Content: "You are an expert educational content adapter."},
		{Role: "user", Content: prompt},
	}, llm.ChatParams{
		Temperature: personalizeTemperature,
		MaxTokens:   personalizeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to personalize content: %w", err)
	}
	return rewritten, nil
}

// Translate translates educational content to Urdu at a lower temperature for
// fidelity, keeping technical terms in English where appropriate.
func (e *engine) Translate(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(`Translate the following educational content to Urdu. Maintain technical terms in English where appropriate, but provide Urdu explanations.

Content:
%s

Provide a natural, educational translation in Urdu.`, content)

	translated, err := e.llmClient.ChatWithMessages(ctx, []llm.Message{
		{Role: "system", Content: "You are an expert translator specializing in technical educational content."},
		{Role: "user", Content: prompt},
	}, llm.ChatParams{
		Temperature: translateTemperature,
		MaxTokens:   translateMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate content: %w", err)
	}
	return translated, nil
}

// excerpt returns the first n characters of text followed by "...".
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// orDefault substitutes the synthesizer-layer default for a blank level.
func orDefault(level string) string {
	if level == "" {
		return defaultExperience
	}
	return level
}
