package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	publicdomain "github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to publicdomain.Status
		want     bool
	}{
		{publicdomain.StatusPending, publicdomain.StatusApproved, true},
		{publicdomain.StatusPending, publicdomain.StatusRejected, true},
		{publicdomain.StatusPending, publicdomain.StatusSuspended, false},
		{publicdomain.StatusApproved, publicdomain.StatusSuspended, true},
		{publicdomain.StatusApproved, publicdomain.StatusPending, false},
		{publicdomain.StatusApproved, publicdomain.StatusApproved, false},
		{publicdomain.StatusSuspended, publicdomain.StatusApproved, true},
		{publicdomain.StatusSuspended, publicdomain.StatusRejected, false},
		{publicdomain.StatusRejected, publicdomain.StatusApproved, true},
		{publicdomain.StatusRejected, publicdomain.StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestListingTransition(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	l := Listing{ID: "p1", Status: publicdomain.StatusPending}

	require.NoError(t, l.Transition(publicdomain.StatusApproved, at))
	assert.Equal(t, publicdomain.StatusApproved, l.Status)
	assert.Equal(t, at, l.UpdatedAt)

	err := l.Transition(publicdomain.StatusPending, at.Add(time.Hour))
	assert.ErrorIs(t, err, publicdomain.ErrInvalidTransition)
	assert.Equal(t, publicdomain.StatusApproved, l.Status)
	assert.Equal(t, at, l.UpdatedAt)
}

func TestAllowedTransitionsIsACopy(t *testing.T) {
	next := AllowedTransitions(publicdomain.StatusPending)
	next[0] = publicdomain.StatusSuspended
	assert.True(t, CanTransition(publicdomain.StatusPending, publicdomain.StatusApproved))
}
