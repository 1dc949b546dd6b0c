package uistate

import "sync"

// AuthState is a point-in-time copy of AuthStore.
type AuthState struct {
	LoggingIn  bool
	LoginError string
}

// AuthStore tracks the login form state. The user itself comes from the
// query cache, never from here.
type AuthStore struct {
	mu        sync.RWMutex
	state     AuthState
	listeners listeners[AuthState]
}

func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

func (s *AuthStore) Subscribe(fn func(AuthState)) func() {
	return s.listeners.add(fn)
}

func (s *AuthStore) Snapshot() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *AuthStore) set(fn func(*AuthState)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	s.mu.Unlock()
	s.listeners.notify(state)
}

func (s *AuthStore) SetLoggingIn(v bool) {
	s.set(func(st *AuthState) { st.LoggingIn = v })
}

func (s *AuthStore) SetLoginError(msg string) {
	s.set(func(st *AuthState) { st.LoginError = msg })
}

func (s *AuthStore) ClearError() {
	s.set(func(st *AuthState) { st.LoginError = "" })
}
