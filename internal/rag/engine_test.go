package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"textbook-ai/internal/llm"
	"textbook-ai/internal/rag"
	rag_mocks "textbook-ai/internal/rag/mocks"
	"textbook-ai/internal/vectorstore"
	vectorstore_mocks "textbook-ai/internal/vectorstore/mocks"
)

// engineFixture wires an Engine over mock retrieval and generation deps.
type engineFixture struct {
	embedder  *rag_mocks.MockEmbedder
	store     *vectorstore_mocks.MockVectorStore
	llmClient *rag_mocks.MockLLMClient
	engine    rag.Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	llmClient := rag_mocks.NewMockLLMClient(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	return &engineFixture{
		embedder:  embedder,
		store:     store,
		llmClient: llmClient,
		engine:    rag.NewEngine(retriever, llmClient),
	}
}

func TestEngine_Ask_FreeText(t *testing.T) {
	f := newEngineFixture(t)

	longText := strings.Repeat("x", 300)
	chunks := []vectorstore.SearchResult{
		{Text: "ROS 2 uses DDS for transport.", Score: 0.9, Meta: map[string]any{"source": "ch2/ros.md"}},
		{Text: longText, Score: 0.8, Meta: map[string]any{}},
	}

	f.embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"What transport does ROS 2 use?"}).Return([][]float32{{0.1}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.DefaultSearchLimit).Return(chunks, nil)

	var gotMessages []llm.Message
	var gotParams llm.ChatParams
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
			gotMessages = messages
			gotParams = params
			return "DDS.", nil
		})

	answer, err := f.engine.Ask(context.Background(), "What transport does ROS 2 use?", "", nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if answer.Answer != "DDS." {
		t.Errorf("Answer = %q, want %q", answer.Answer, "DDS.")
	}
	if gotParams.Temperature != 0.7 || gotParams.MaxTokens != 1000 {
		t.Errorf("params = %+v, want temperature 0.7 and max tokens 1000", gotParams)
	}
	if len(gotMessages) != 2 {
		t.Fatalf("got %d messages, want 2", len(gotMessages))
	}
	if gotMessages[0].Role != "system" || gotMessages[1].Role != "user" {
		t.Errorf("message roles = %q, %q", gotMessages[0].Role, gotMessages[1].Role)
	}
	// No profile means no tailoring sentence in the system prompt.
	if strings.Contains(gotMessages[0].Content, "experience") {
		t.Errorf("system prompt mentions experience without a profile: %q", gotMessages[0].Content)
	}
	if !strings.Contains(gotMessages[1].Content, "[Source: ch2/ros.md]\nROS 2 uses DDS for transport.") {
		t.Errorf("user prompt missing labelled context block: %q", gotMessages[1].Content)
	}
	// A chunk without a source is labelled Unknown.
	if !strings.Contains(gotMessages[1].Content, "[Source: Unknown]") {
		t.Error("user prompt missing Unknown source label")
	}
	if !strings.Contains(gotMessages[1].Content, "Question: What transport does ROS 2 use?") {
		t.Error("user prompt missing the question")
	}

	if len(answer.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(answer.Sources))
	}
	if answer.Sources[0].Text != "ROS 2 uses DDS for transport...." {
		t.Errorf("source excerpt = %q", answer.Sources[0].Text)
	}
	if want := strings.Repeat("x", 200) + "..."; answer.Sources[1].Text != want {
		t.Errorf("long source not truncated to 200 characters: len=%d", len(answer.Sources[1].Text))
	}
	if answer.Sources[0].Score != 0.9 {
		t.Errorf("source score = %v, want 0.9", answer.Sources[0].Score)
	}
}

func TestEngine_Ask_WithProfile(t *testing.T) {
	f := newEngineFixture(t)

	f.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.DefaultSearchLimit).Return(nil, nil)

	var systemPrompt string
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			systemPrompt = messages[0].Content
			return "ok", nil
		})

	profile := &rag.Profile{SoftwareExperience: "advanced", HardwareExperience: ""}
	if _, err := f.engine.Ask(context.Background(), "q", "", profile); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if !strings.Contains(systemPrompt, "advanced software experience") {
		t.Errorf("system prompt missing software level: %q", systemPrompt)
	}
	// Blank levels fall back to intermediate at this layer.
	if !strings.Contains(systemPrompt, "intermediate hardware experience") {
		t.Errorf("system prompt missing defaulted hardware level: %q", systemPrompt)
	}
}

func TestEngine_Ask_SelectionMode(t *testing.T) {
	f := newEngineFixture(t)

	pool := []vectorstore.SearchResult{
		{Text: "Dynamixel servos are common in research arms.", Score: 0.9},
		{Text: "Chapter on simulation.", Score: 0.8},
	}

	// Selection mode embeds the highlighted passage, not the question.
	f.embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"Dynamixel servos"}).Return([][]float32{{0.1}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.SelectionPoolSize).Return(pool, nil)

	var userPrompt string
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			userPrompt = messages[1].Content
			return "ok", nil
		})

	answer, err := f.engine.Ask(context.Background(), "what are these?", "Dynamixel servos", nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if len(answer.Sources) != 1 {
		t.Fatalf("got %d sources, want 1 contained match", len(answer.Sources))
	}
	if !strings.Contains(userPrompt, "Dynamixel servos are common in research arms.") {
		t.Error("user prompt missing the matched chunk")
	}
	if strings.Contains(userPrompt, "Chapter on simulation.") {
		t.Error("user prompt includes a chunk that does not contain the selection")
	}
}

func TestEngine_Ask_RetrievalError(t *testing.T) {
	f := newEngineFixture(t)

	f.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), gomock.Any()).Return(nil, errors.New("qdrant down"))

	if _, err := f.engine.Ask(context.Background(), "q", "", nil); err == nil {
		t.Fatal("Ask() expected error when retrieval fails")
	}
}

func TestEngine_Ask_GenerationError(t *testing.T) {
	f := newEngineFixture(t)

	f.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	f.store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), gomock.Any()).Return(nil, nil)
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("model overloaded"))

	if _, err := f.engine.Ask(context.Background(), "q", "", nil); err == nil {
		t.Fatal("Ask() expected error when generation fails")
	}
}

func TestEngine_Personalize(t *testing.T) {
	f := newEngineFixture(t)

	var gotMessages []llm.Message
	var gotParams llm.ChatParams
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
			gotMessages = messages
			gotParams = params
			return "rewritten", nil
		})

	profile := rag.Profile{SoftwareExperience: "beginner"}
	out, err := f.engine.Personalize(context.Background(), "PID control adjusts output.", profile)
	if err != nil {
		t.Fatalf("Personalize() error = %v", err)
	}
	if out != "rewritten" {
		t.Errorf("Personalize() = %q", out)
	}
	if gotParams.Temperature != 0.7 || gotParams.MaxTokens != 2000 {
		t.Errorf("params = %+v, want temperature 0.7 and max tokens 2000", gotParams)
	}

	prompt := gotMessages[1].Content
	if !strings.Contains(prompt, "Software Experience: beginner") {
		t.Errorf("prompt missing software level: %q", prompt)
	}
	if !strings.Contains(prompt, "Hardware Experience: intermediate") {
		t.Errorf("prompt missing defaulted hardware level: %q", prompt)
	}
	if !strings.Contains(prompt, "PID control adjusts output.") {
		t.Error("prompt missing original content")
	}
}

func TestEngine_Translate(t *testing.T) {
	f := newEngineFixture(t)

	var gotMessages []llm.Message
	var gotParams llm.ChatParams
	f.llmClient.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
			gotMessages = messages
			gotParams = params
			return "ترجمہ", nil
		})

	out, err := f.engine.Translate(context.Background(), "Actuators convert signals to motion.")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if out != "ترجمہ" {
		t.Errorf("Translate() = %q", out)
	}
	if gotParams.Temperature != 0.5 || gotParams.MaxTokens != 2000 {
		t.Errorf("params = %+v, want temperature 0.5 and max tokens 2000", gotParams)
	}
	if !strings.Contains(gotMessages[1].Content, "Urdu") {
		t.Error("prompt does not ask for Urdu")
	}
	if !strings.Contains(gotMessages[1].Content, "Actuators convert signals to motion.") {
		t.Error("prompt missing content")
	}
}
