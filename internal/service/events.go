package service

import "github.com/google/uuid"

// Events pushed to realtime subscribers once the owning transaction commits.
const (
	EventSocieteCreated = "societe.created"
	EventSocieteUpdated = "societe.updated"
	EventSocieteDeleted = "societe.deleted"
	EventAdminAssigned  = "admin.assigned"
	EventAdminDetached  = "admin.detached"
	EventUserDeleted    = "user.deleted"
)

// Publisher delivers events to subscribers. Implementations must not block.
type Publisher interface {
	Publish(eventType string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// NopPublisher discards every event.
func NopPublisher() Publisher { return nopPublisher{} }

// AssignmentEvent is the payload of admin.assigned and admin.detached.
type AssignmentEvent struct {
	AdminID   uuid.UUID `json:"admin_id"`
	SocieteID uuid.UUID `json:"societe_id"`
}

type pendingEvent struct {
	kind string
	data interface{}
}

// eventBuffer collects events during a transaction so they are only
// published after commit.
type eventBuffer []pendingEvent

func (b *eventBuffer) add(kind string, data interface{}) {
	*b = append(*b, pendingEvent{kind: kind, data: data})
}

func (b eventBuffer) flush(p Publisher) {
	for _, e := range b {
		p.Publish(e.kind, e.data)
	}
}
