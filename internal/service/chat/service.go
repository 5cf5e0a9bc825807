package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safetrip/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidContact  = errors.New("contact name and phone are required")
	ErrInvalidSender   = errors.New("sender must be user or bot")
)

// state is everything one session owns.
type state struct {
	session  chat.Session
	messages []chat.Message
	contacts []chat.Contact
}

// Service keeps session transcripts and contact lists in memory.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*state
	now      func() time.Time
}

// NewService bootstraps an empty in-memory service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*state),
		now:      time.Now,
	}
}

// CreateSession provisions an anonymous session.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &state{
		session:  session,
		messages: make([]chat.Message, 0, 16),
	}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return st.session, nil
}

// EndSession drops the session with its transcript and contacts.
func (s *Service) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// SaveMessage appends a message to the session transcript and returns the
// stored copy with its ID and timestamps filled in.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if message.Sender != chat.SenderUser && message.Sender != chat.SenderBot {
		return chat.Message{}, ErrInvalidSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[message.SessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.now().UTC()
	}
	if message.Timestamp == "" {
		message.Timestamp = message.CreatedAt.Local().Format(chat.TimestampLayout)
	}

	st.messages = append(st.messages, message)
	return message, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(st.messages))
	copy(copied, st.messages)
	return copied, nil
}

// AddContact appends an emergency contact to the session.
func (s *Service) AddContact(_ context.Context, sessionID string, contact chat.Contact) (chat.Contact, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if contact.Name == "" || contact.Phone == "" {
		return chat.Contact{}, ErrInvalidContact
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Contact{}, ErrSessionNotFound
	}
	st.contacts = append(st.contacts, contact)
	return contact, nil
}

// ListContacts returns the session's contacts in insertion order.
func (s *Service) ListContacts(_ context.Context, sessionID string) ([]chat.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]chat.Contact{}, st.contacts...), nil
}

// DeleteContact removes the contact at index, keeping the order of the rest.
func (s *Service) DeleteContact(_ context.Context, sessionID string, index int) (chat.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return chat.Contact{}, ErrSessionNotFound
	}
	if index < 0 || index >= len(st.contacts) {
		return chat.Contact{}, fmt.Errorf("%w: index %d", ErrContactNotFound, index)
	}

	removed := st.contacts[index]
	st.contacts = append(st.contacts[:index], st.contacts[index+1:]...)
	return removed, nil
}

// AlertContact pretends to message one contact and returns the confirmation.
func (s *Service) AlertContact(_ context.Context, sessionID string, index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	if index < 0 || index >= len(st.contacts) {
		return "", fmt.Errorf("%w: index %d", ErrContactNotFound, index)
	}

	contact := st.contacts[index]
	return fmt.Sprintf("📨 Alert sent to %s (%s)", contact.Name, contact.Phone), nil
}

// AlertAll pretends to message every contact. No message leaves the process.
func (s *Service) AlertAll(_ context.Context, sessionID string) (string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return "", 0, ErrSessionNotFound
	}

	count := len(st.contacts)
	if count == 0 {
		return "⚠️ No emergency contacts saved.", 0, nil
	}
	return fmt.Sprintf("🚨 Alert sent to %d emergency contact(s).", count), count, nil
}
