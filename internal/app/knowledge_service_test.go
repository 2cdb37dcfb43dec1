package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeService_AddDocument(t *testing.T) {
	store := &fakeKnowledgeStore{}
	cache := &fakeContextCache{}
	svc := NewKnowledgeService(store, cache, 10)

	doc, err := svc.AddDocument(context.Background(), AddDocumentInput{
		Title:   "Enrollment",
		Content: "Enrollment opens in August.",
	})
	require.NoError(t, err)
	assert.Equal(t, "documento", doc.Kind)
	assert.True(t, doc.Active)
	assert.Equal(t, 1, cache.invalidated, "adding a document must invalidate the context cache")
}

func TestKnowledgeService_AddDocumentValidation(t *testing.T) {
	svc := NewKnowledgeService(&fakeKnowledgeStore{}, nil, 10)

	_, err := svc.AddDocument(context.Background(), AddDocumentInput{Title: "", Content: "x"})
	assert.ErrorIs(t, err, ErrDocumentInvalid)

	_, err = svc.AddDocument(context.Background(), AddDocumentInput{Title: "x", Content: "  "})
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestKnowledgeService_BuildContextEmpty(t *testing.T) {
	svc := NewKnowledgeService(&fakeKnowledgeStore{}, nil, 10)

	block, docs, err := svc.BuildContext(context.Background())
	require.NoError(t, err)
	assert.Empty(t, block)
	assert.Zero(t, docs)
}

func TestKnowledgeService_BuildContextFormat(t *testing.T) {
	store := &fakeKnowledgeStore{}
	svc := NewKnowledgeService(store, nil, 10)
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, AddDocumentInput{Title: "A", Content: "first"})
	require.NoError(t, err)
	_, err = svc.AddDocument(ctx, AddDocumentInput{Title: "B", Content: "second"})
	require.NoError(t, err)

	block, docs, err := svc.BuildContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, docs)
	assert.Equal(t, "Document: A\nContent: first\n\nDocument: B\nContent: second\n\n", block)
}

func TestKnowledgeService_BuildContextCapsAtMaxDocs(t *testing.T) {
	store := &fakeKnowledgeStore{}
	svc := NewKnowledgeService(store, nil, 10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.AddDocument(ctx, AddDocumentInput{
			Title:   fmt.Sprintf("doc-%02d", i),
			Content: "body",
		})
		require.NoError(t, err)
	}

	block, docs, err := svc.BuildContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, docs)
	assert.Equal(t, 10, strings.Count(block, "Document: "))
	// Insertion order: the first ten documents make the cut.
	assert.Contains(t, block, "doc-00")
	assert.Contains(t, block, "doc-09")
	assert.NotContains(t, block, "doc-10")
}

func TestKnowledgeService_BuildContextUsesCache(t *testing.T) {
	store := &fakeKnowledgeStore{}
	cache := &fakeContextCache{}
	svc := NewKnowledgeService(store, cache, 10)
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, AddDocumentInput{Title: "A", Content: "first"})
	require.NoError(t, err)

	block1, _, err := svc.BuildContext(ctx)
	require.NoError(t, err)
	assert.True(t, cache.hasValue)

	// A stale cache entry wins over the store until invalidated.
	cache.block = "cached block"
	cache.docs = 1
	block2, docs, err := svc.BuildContext(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, block1, block2)
	assert.Equal(t, "cached block", block2)
	assert.Equal(t, 1, docs)
}
