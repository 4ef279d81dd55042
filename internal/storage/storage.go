package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrBusy            = errors.New("an assembly is already running for this session")
)

// Session holds one ordered image working list. Insertion order is page order.
type Session struct {
	ID        string
	Images    []imagepdf.SourceImage
	Busy      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts an empty session.
func (s *SessionStore) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		Images:    []imagepdf.SourceImage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.ID] = session
	return session.clone()
}

// Get returns a copy of the session so callers never share its image slice.
func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return session.clone(), true
}

func (s *SessionStore) GetAll() map[string]*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v.clone()
	}
	return result
}

// AddImages appends images in order, assigning fresh IDs, and returns the
// added images with the resulting list length. The list is locked against
// mutation while an assembly is in flight.
func (s *SessionStore) AddImages(sessionID string, images []imagepdf.SourceImage) ([]imagepdf.SourceImage, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.mutable(sessionID)
	if err != nil {
		return nil, 0, err
	}

	added := make([]imagepdf.SourceImage, 0, len(images))
	for _, img := range images {
		img.ID = uuid.NewString()
		added = append(added, img)
	}
	session.Images = append(session.Images, added...)
	session.UpdatedAt = s.now()
	return added, len(session.Images), nil
}

// RemoveImage drops one image by ID.
func (s *SessionStore) RemoveImage(sessionID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.mutable(sessionID)
	if err != nil {
		return err
	}

	for i, img := range session.Images {
		if img.ID == imageID {
			session.Images = append(session.Images[:i:i], session.Images[i+1:]...)
			session.UpdatedAt = s.now()
			return nil
		}
	}
	return ErrImageNotFound
}

// Clear empties the working list.
func (s *SessionStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.mutable(sessionID)
	if err != nil {
		return err
	}
	session.Images = []imagepdf.SourceImage{}
	session.UpdatedAt = s.now()
	return nil
}

// Acquire marks the session busy and returns a snapshot of its images for an
// assembly run. The returned release func must be called when the run ends.
func (s *SessionStore) Acquire(sessionID string) ([]imagepdf.SourceImage, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.mutable(sessionID)
	if err != nil {
		return nil, nil, err
	}
	session.Busy = true

	snapshot := append([]imagepdf.SourceImage(nil), session.Images...)
	release := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		session.Busy = false
	}
	return snapshot, release, nil
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Expire removes idle sessions not updated within ttl and returns how many went.
func (s *SessionStore) Expire(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, session := range s.sessions {
		if !session.Busy && session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// mutable must be called with the write lock held.
func (s *SessionStore) mutable(sessionID string) (*Session, error) {
	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if session.Busy {
		return nil, ErrBusy
	}
	return session, nil
}

func (s *Session) clone() *Session {
	c := *s
	c.Images = append([]imagepdf.SourceImage(nil), s.Images...)
	return &c
}
