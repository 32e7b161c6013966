// ABOUTME: Per-session user context record over a closed attribute set
// ABOUTME: Name, age, location, interests, preferences - nothing else
package models

import (
	"fmt"
	"sort"
	"strings"
)

// ContextAttribute names one recognized user-context field.
type ContextAttribute string

const (
	AttrName        ContextAttribute = "name"
	AttrAge         ContextAttribute = "age"
	AttrLocation    ContextAttribute = "location"
	AttrInterests   ContextAttribute = "interests"
	AttrPreferences ContextAttribute = "preferences"
)

// KnownAttribute reports whether attr is in the recognized set.
func KnownAttribute(attr ContextAttribute) bool {
	switch attr {
	case AttrName, AttrAge, AttrLocation, AttrInterests, AttrPreferences:
		return true
	}
	return false
}

// UserContext is one session's context record. Created empty at session
// start, mutated only by explicit set utterances, destroyed with the session.
type UserContext struct {
	Name        string            `json:"name,omitempty"`
	Age         int               `json:"age,omitempty"`
	Location    string            `json:"location,omitempty"`
	Interests   []string          `json:"interests,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// NewUserContext returns an empty record.
func NewUserContext() *UserContext {
	return &UserContext{Preferences: make(map[string]string)}
}

// AddInterest appends an interest, skipping duplicates.
func (u *UserContext) AddInterest(interest string) {
	for _, existing := range u.Interests {
		if strings.EqualFold(existing, interest) {
			return
		}
	}
	u.Interests = append(u.Interests, interest)
}

// Describe renders the full record the way the assistant reports it.
func (u *UserContext) Describe() string {
	name := u.Name
	if name == "" {
		name = "Unknown"
	}
	location := u.Location
	if location == "" {
		location = "Unknown"
	}

	var b strings.Builder
	b.WriteString("User Info:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Age: %d\n", u.Age)
	fmt.Fprintf(&b, "- Location: %s\n", location)
	fmt.Fprintf(&b, "- Interests: %s\n", joinOrNone(u.Interests))
	fmt.Fprintf(&b, "- Preferences: %s", formatPreferences(u.Preferences))
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func formatPreferences(prefs map[string]string) string {
	if len(prefs) == 0 {
		return "none"
	}
	pairs := make([]string, 0, len(prefs))
	for k, v := range prefs {
		pairs = append(pairs, k+"="+v)
	}
	// Stable output for display and tests
	sort.Strings(pairs)
	return strings.Join(pairs, ", ")
}
