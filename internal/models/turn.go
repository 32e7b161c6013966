// ABOUTME: Conversation turn type for session transcripts
// ABOUTME: One user message plus the reply it produced and the route taken
package models

import "time"

// Turn is one exchange in a session transcript.
type Turn struct {
	TurnID      string    `json:"turn_id"`
	Timestamp   time.Time `json:"timestamp"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Route       Route     `json:"route"`
}
