package app

import (
	"context"
	"sort"
	"time"

	"inchat/internal/ai"
	"inchat/internal/model"
)

type fakeUserStore struct {
	users  []model.User
	nextID uint
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakeSessionTracker struct {
	records map[string]uint
}

func newFakeSessionTracker() *fakeSessionTracker {
	return &fakeSessionTracker{records: make(map[string]uint)}
}

func (f *fakeSessionTracker) Put(_ context.Context, tokenID string, userID uint) error {
	f.records[tokenID] = userID
	return nil
}

func (f *fakeSessionTracker) Get(_ context.Context, tokenID string) (uint, bool, error) {
	userID, ok := f.records[tokenID]
	return userID, ok, nil
}

func (f *fakeSessionTracker) Delete(_ context.Context, tokenID string) error {
	delete(f.records, tokenID)
	return nil
}

type fakeSessionStore struct {
	sessions []model.ChatSession
	nextID   uint
}

func (f *fakeSessionStore) Create(session *model.ChatSession) error {
	f.nextID++
	session.ID = f.nextID
	session.CreatedAt = time.Now()
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeSessionStore) ListByUserID(userID uint) ([]model.ChatSession, error) {
	var out []model.ChatSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeSessionStore) GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID && f.sessions[i].UserID == userID {
			s := f.sessions[i]
			return &s, nil
		}
	}
	return nil, nil
}

type fakeMessageStore struct {
	messages []model.Message
	nextID   uint
}

func (f *fakeMessageStore) Create(message *model.Message) error {
	f.nextID++
	message.ID = f.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageStore) ListBySessionID(sessionID uint, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageStore) ListRecentBySessionID(sessionID uint, limit int) ([]model.Message, error) {
	all, _ := f.ListBySessionID(sessionID, 0)
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type fakeKnowledgeStore struct {
	docs   []model.KnowledgeDocument
	nextID uint
}

func (f *fakeKnowledgeStore) Create(doc *model.KnowledgeDocument) error {
	f.nextID++
	doc.ID = f.nextID
	doc.CreatedAt = time.Now()
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeKnowledgeStore) ListActive(limit int) ([]model.KnowledgeDocument, error) {
	var out []model.KnowledgeDocument
	for _, d := range f.docs {
		if d.Active {
			out = append(out, d)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeContextCache struct {
	block       string
	docs        int
	hasValue    bool
	invalidated int
}

func (f *fakeContextCache) Get(_ context.Context) (string, int, bool, error) {
	return f.block, f.docs, f.hasValue, nil
}

func (f *fakeContextCache) Set(_ context.Context, block string, docs int) error {
	f.block, f.docs, f.hasValue = block, docs, true
	return nil
}

func (f *fakeContextCache) Invalidate(_ context.Context) error {
	f.block, f.docs, f.hasValue = "", 0, false
	f.invalidated++
	return nil
}

type fakeAssembler struct {
	block string
	docs  int
	err   error
}

func (f *fakeAssembler) BuildContext(_ context.Context) (string, int, error) {
	return f.block, f.docs, f.err
}

type fakeAuditor struct {
	entries []model.TurnLog
}

func (f *fakeAuditor) Publish(_ context.Context, entry model.TurnLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeCompleter struct {
	reply    string
	err      error
	requests [][]ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.requests = append(f.requests, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
