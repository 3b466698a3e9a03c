package service

import (
	"context"
	"sync"
	"testing"

	"auction_system/internal/auth"
	"auction_system/internal/db"
	"auction_system/internal/db/dbtest"
	"auction_system/internal/domain"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordedEvent struct {
	Type string
	Data any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	direct map[string][]string
}

func (p *recordingPublisher) Publish(eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Data: data})
}

func (p *recordingPublisher) PublishTo(username, eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.direct == nil {
		p.direct = make(map[string][]string)
	}
	p.direct[username] = append(p.direct[username], eventType)
}

func (p *recordingPublisher) DirectTypes(username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.direct[username]...)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newUserService(t *testing.T, store *db.Store) *UserService {
	t.Helper()
	return NewUserService(store, auth.NewBcryptHasher(bcrypt.MinCost), nil)
}

func mustCreateUser(t *testing.T, users *UserService, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), UserInput{
		Username: username,
		Password: username + "-pw",
		Name:     "Test",
		Surname:  "User",
		Email:    username + "@example.com",
	}, role)
	require.NoError(t, err)
	return u
}

func newStore(t *testing.T) *db.Store {
	t.Helper()
	return dbtest.Store(t)
}
