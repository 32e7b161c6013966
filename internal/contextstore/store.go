// ABOUTME: Session-scoped user context store with typed setters and validation
// ABOUTME: Records live only as long as their session; nothing touches disk
package contextstore

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/maitre-ai/maitre/internal/models"
)

// ErrNotSet means the requested attribute has no stored value yet.
var ErrNotSet = errors.New("attribute not set")

// ValidationError rejects a malformed context value without touching the
// stored record.
type ValidationError struct {
	Attribute models.ContextAttribute
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Attribute, e.Reason)
}

// Store holds one user context record per session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.UserContext
}

// New creates an empty context store.
func New() *Store {
	return &Store{sessions: make(map[string]*models.UserContext)}
}

// record returns the session's context, creating it on first touch.
// Callers must hold mu.
func (s *Store) record(sessionID string) *models.UserContext {
	u, ok := s.sessions[sessionID]
	if !ok {
		u = models.NewUserContext()
		s.sessions[sessionID] = u
	}
	return u
}

// SetName stores the user's name.
func (s *Store) SetName(sessionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Attribute: models.AttrName, Reason: "name is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sessionID).Name = name
	return nil
}

// SetAge stores the user's age. Rejects non-numeric and implausible values.
func (s *Store) SetAge(sessionID, value string) error {
	age, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return &ValidationError{Attribute: models.AttrAge, Reason: fmt.Sprintf("%q is not a number", value)}
	}
	if age <= 0 || age > 150 {
		return &ValidationError{Attribute: models.AttrAge, Reason: fmt.Sprintf("%d is out of range", age)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sessionID).Age = age
	return nil
}

// SetLocation stores the user's location.
func (s *Store) SetLocation(sessionID, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return &ValidationError{Attribute: models.AttrLocation, Reason: "location is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sessionID).Location = location
	return nil
}

// AddInterest appends an interest, deduplicating case-insensitively.
func (s *Store) AddInterest(sessionID, interest string) error {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return &ValidationError{Attribute: models.AttrInterests, Reason: "interest is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sessionID).AddInterest(interest)
	return nil
}

// SetPreference stores one preference key-value pair.
func (s *Store) SetPreference(sessionID, key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return &ValidationError{Attribute: models.AttrPreferences, Reason: "preference key and value are required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sessionID).Preferences[strings.ToLower(key)] = value
	return nil
}

// Set routes a generic attribute write to the matching typed setter. For
// preferences, key selects the preference being set.
func (s *Store) Set(sessionID string, attr models.ContextAttribute, key, value string) error {
	switch attr {
	case models.AttrName:
		return s.SetName(sessionID, value)
	case models.AttrAge:
		return s.SetAge(sessionID, value)
	case models.AttrLocation:
		return s.SetLocation(sessionID, value)
	case models.AttrInterests:
		return s.AddInterest(sessionID, value)
	case models.AttrPreferences:
		return s.SetPreference(sessionID, key, value)
	default:
		return &ValidationError{Attribute: attr, Reason: "unknown attribute"}
	}
}

// Get returns one attribute's display value, or ErrNotSet.
func (s *Store) Get(sessionID string, attr models.ContextAttribute) (string, error) {
	s.mu.RLock()
	u, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", attr, ErrNotSet)
	}

	switch attr {
	case models.AttrName:
		if u.Name == "" {
			return "", fmt.Errorf("name: %w", ErrNotSet)
		}
		return u.Name, nil
	case models.AttrAge:
		if u.Age == 0 {
			return "", fmt.Errorf("age: %w", ErrNotSet)
		}
		return strconv.Itoa(u.Age), nil
	case models.AttrLocation:
		if u.Location == "" {
			return "", fmt.Errorf("location: %w", ErrNotSet)
		}
		return u.Location, nil
	case models.AttrInterests:
		if len(u.Interests) == 0 {
			return "", fmt.Errorf("interests: %w", ErrNotSet)
		}
		return strings.Join(u.Interests, ", "), nil
	case models.AttrPreferences:
		if len(u.Preferences) == 0 {
			return "", fmt.Errorf("preferences: %w", ErrNotSet)
		}
		pairs := make([]string, 0, len(u.Preferences))
		for k, v := range u.Preferences {
			pairs = append(pairs, k+"="+v)
		}
		sort.Strings(pairs)
		return strings.Join(pairs, ", "), nil
	default:
		return "", &ValidationError{Attribute: attr, Reason: "unknown attribute"}
	}
}

// Describe renders the session's whole record, empty record included.
func (s *Store) Describe(sessionID string) string {
	s.mu.RLock()
	u, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		u = models.NewUserContext()
	}
	return u.Describe()
}

// Drop discards a session's record. Called when the session ends.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
