package rag_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"textbook-ai/internal/rag"
	rag_mocks "textbook-ai/internal/rag/mocks"
	"textbook-ai/internal/vectorstore"
	vectorstore_mocks "textbook-ai/internal/vectorstore/mocks"
)

func TestRetriever_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	vector := []float32{0.1, 0.2, 0.3}
	want := []vectorstore.SearchResult{
		{Text: "ROS 2 nodes communicate over topics.", Score: 0.92},
		{Text: "Actuators convert commands to motion.", Score: 0.85},
	}

	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"how do nodes talk"}).Return([][]float32{vector}, nil)
	store.EXPECT().Search(gomock.Any(), "textbook", vector, 5).Return(want, nil)

	got, err := retriever.Search(context.Background(), "how do nodes talk", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != want[0].Text || got[1].Score != want[1].Score {
		t.Errorf("Search() = %+v, want %+v", got, want)
	}
}

func TestRetriever_Search_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.DefaultSearchLimit).Return(nil, nil)

	if _, err := retriever.Search(context.Background(), "q", 0); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
}

func TestRetriever_Search_EmbedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("provider down"))

	if _, err := retriever.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("Search() expected error when embedding fails")
	}
}

func TestRetriever_SearchSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	pool := []vectorstore.SearchResult{
		{Text: "The inverse kinematics solver handles joint limits.", Score: 0.95},
		{Text: "Unrelated chapter on sensor fusion.", Score: 0.90},
		{Text: "INVERSE KINEMATICS is covered in chapter four.", Score: 0.88},
		{Text: "More on inverse kinematics and Jacobians.", Score: 0.80},
	}

	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"inverse kinematics"}).Return([][]float32{{0.4}}, nil)
	store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.SelectionPoolSize).Return(pool, nil)

	got, err := retriever.SearchSelection(context.Background(), "inverse kinematics", rag.SelectionResultLimit)
	if err != nil {
		t.Fatalf("SearchSelection() error = %v", err)
	}

	// Containment is case-insensitive and results keep pool order.
	if len(got) != 3 {
		t.Fatalf("SearchSelection() returned %d results, want 3", len(got))
	}
	if got[0].Score != 0.95 || got[1].Score != 0.88 || got[2].Score != 0.80 {
		t.Errorf("SearchSelection() wrong order: %+v", got)
	}
}

func TestRetriever_SearchSelection_TruncatesToLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	pool := make([]vectorstore.SearchResult, 0, 5)
	for i := 0; i < 5; i++ {
		pool = append(pool, vectorstore.SearchResult{Text: "gripper design notes", Score: float32(5 - i)})
	}

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.4}}, nil)
	store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.SelectionPoolSize).Return(pool, nil)

	got, err := retriever.SearchSelection(context.Background(), "gripper", 3)
	if err != nil {
		t.Fatalf("SearchSelection() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("SearchSelection() returned %d results, want 3", len(got))
	}
}

func TestRetriever_SearchSelection_NoMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := rag_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	retriever := rag.NewRetriever(embedder, store, "textbook")

	pool := []vectorstore.SearchResult{
		{Text: "nothing about the selection here", Score: 0.7},
	}

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.4}}, nil)
	store.EXPECT().Search(gomock.Any(), "textbook", gomock.Any(), rag.SelectionPoolSize).Return(pool, nil)

	// An empty filtered pool is a valid empty result, not an error, and there
	// is no second search call to fall back on.
	got, err := retriever.SearchSelection(context.Background(), "zero moment point", 3)
	if err != nil {
		t.Fatalf("SearchSelection() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SearchSelection() returned %d results, want 0", len(got))
	}
}
