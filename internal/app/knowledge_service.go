package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inchat/internal/model"
)

const (
	defaultKind  = "documento"
	maxAdminList = 200
)

var ErrDocumentInvalid = errors.New("title and content are required")

type KnowledgeStore interface {
	Create(doc *model.KnowledgeDocument) error
	ListActive(limit int) ([]model.KnowledgeDocument, error)
}

type ContextCache interface {
	Get(ctx context.Context) (string, int, bool, error)
	Set(ctx context.Context, block string, docs int) error
	Invalidate(ctx context.Context) error
}

// KnowledgeService curates the knowledge base and assembles the prompt
// context block from it.
type KnowledgeService struct {
	docRepo      KnowledgeStore
	contextCache ContextCache
	maxDocs      int
}

type AddDocumentInput struct {
	Title   string
	Content string
	Kind    string
	URL     string
}

func NewKnowledgeService(docRepo KnowledgeStore, contextCache ContextCache, maxDocs int) *KnowledgeService {
	if maxDocs <= 0 {
		maxDocs = 10
	}
	return &KnowledgeService{
		docRepo:      docRepo,
		contextCache: contextCache,
		maxDocs:      maxDocs,
	}
}

func (s *KnowledgeService) AddDocument(ctx context.Context, input AddDocumentInput) (*model.KnowledgeDocument, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrDocumentInvalid
	}

	kind := strings.TrimSpace(input.Kind)
	if kind == "" {
		kind = defaultKind
	}

	doc := &model.KnowledgeDocument{
		Title:   title,
		Content: content,
		Kind:    kind,
		URL:     strings.TrimSpace(input.URL),
		Active:  true,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}

	if s.contextCache != nil {
		_ = s.contextCache.Invalidate(ctx)
	}
	return doc, nil
}

func (s *KnowledgeService) ListDocuments() ([]model.KnowledgeDocument, error) {
	return s.docRepo.ListActive(maxAdminList)
}

// BuildContext concatenates up to maxDocs active documents into one prompt
// block, in insertion order. Zero documents produce an empty block. The
// result is cached; cache failures fall through to the store.
func (s *KnowledgeService) BuildContext(ctx context.Context) (string, int, error) {
	if s.contextCache != nil {
		if block, docs, hit, err := s.contextCache.Get(ctx); err == nil && hit {
			return block, docs, nil
		}
	}

	docs, err := s.docRepo.ListActive(s.maxDocs)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "Document: %s\nContent: %s\n\n", doc.Title, doc.Content)
	}
	block := b.String()

	if s.contextCache != nil {
		_ = s.contextCache.Set(ctx, block, len(docs))
	}
	return block, len(docs), nil
}
