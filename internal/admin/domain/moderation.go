package domain

import (
	"fmt"
	"time"

	publicdomain "github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// Listing is the moderation view of a provider or service.
type Listing struct {
	ID         string
	Kind       publicdomain.ListingKind
	Title      string
	ProviderID string
	OwnerID    string
	Status     publicdomain.Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

var transitions = map[publicdomain.Status][]publicdomain.Status{
	publicdomain.StatusPending:   {publicdomain.StatusApproved, publicdomain.StatusRejected},
	publicdomain.StatusApproved:  {publicdomain.StatusSuspended},
	publicdomain.StatusSuspended: {publicdomain.StatusApproved},
	publicdomain.StatusRejected:  {publicdomain.StatusApproved},
}

// AllowedTransitions lists the statuses reachable from from.
func AllowedTransitions(from publicdomain.Status) []publicdomain.Status {
	return append([]publicdomain.Status(nil), transitions[from]...)
}

// CanTransition reports whether a listing may move from one status to another.
func CanTransition(from, to publicdomain.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves l to status to, stamping UpdatedAt.
func (l *Listing) Transition(to publicdomain.Status, at time.Time) error {
	if !CanTransition(l.Status, to) {
		return fmt.Errorf("%w: %s to %s", publicdomain.ErrInvalidTransition, l.Status, to)
	}
	l.Status = to
	l.UpdatedAt = at
	return nil
}
