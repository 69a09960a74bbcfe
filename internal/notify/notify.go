// Package notify fans mutation events out to connected clients. Delivery is
// best-effort, at most once: nothing is acknowledged, retried or stored, and a
// subscriber that is slow or gone simply misses the event.
package notify

import (
	"github.com/google/uuid"
)

// Event names on the wire.
const (
	EventProjectCreated    = "project-created"
	EventProjectUpdated    = "project:updated"
	EventProjectDeleted    = "project:deleted"
	EventTaskCreated       = "task:created"
	EventTaskUpdated       = "task:updated"
	EventTaskDeleted       = "task:deleted"
	EventTaskAssigned      = "task-assigned"
	EventNewComment        = "new-comment"
	EventMemberAdded       = "member:added"
	EventMemberRemoved     = "member:removed"
	EventMemberRoleUpdated = "member:role-updated"
)

// GlobalChannel carries cross-cutting events such as new projects.
const GlobalChannel = "global"

// ProjectChannel names the broadcast scope for one project.
func ProjectChannel(projectID uuid.UUID) string {
	return "project_" + projectID.String()
}

// Event is one broadcast message.
type Event struct {
	Channel string      `json:"channel"`
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Notifier is injected into the mutation services; handlers never reach for a
// shared connection object directly.
type Notifier interface {
	Publish(channel, event string, payload interface{})
}
