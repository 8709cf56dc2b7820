package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/domain"
)

// Registry maps live connections to their user state. It carries no lock of
// its own: every access goes through the orchestrator, which serializes all
// mutations of users, rooms and queues behind one mutex (pairing touches all
// three, so they form a single critical section).
type Registry struct {
	users map[domain.ClientID]*domain.User
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[domain.ClientID]*domain.User)}
}

func (r *Registry) Register(id domain.ClientID, username string) *domain.User {
	u := domain.NewUser(id, username)
	r.users[id] = u
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("username", username).Msg("registered user")
	return u
}

func (r *Registry) Get(id domain.ClientID) (*domain.User, bool) {
	u, ok := r.users[id]
	return u, ok
}

// Remove drops the entry. Room and queue cleanup for the id must already
// have happened; there is no cascade here.
func (r *Registry) Remove(id domain.ClientID) {
	delete(r.users, id)
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("removed user")
}

func (r *Registry) All() []*domain.User {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}

func (r *Registry) Count() int {
	return len(r.users)
}

// Username resolves an id for notices; unknown ids read as "user" so that
// cleanup paths never have to care whether the target already disconnected.
func (r *Registry) Username(id domain.ClientID) string {
	if u, ok := r.users[id]; ok {
		return u.Username
	}
	return "user"
}
