package domain_test

import (
	"testing"
	"time"

	"go-scout-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestInterviewSlotTransitions(t *testing.T) {
	now := time.Now()

	slot := &domain.InterviewSlot{Status: domain.SlotStatusProposed}
	assert.NoError(t, slot.Accept(now))
	assert.Equal(t, now, *slot.AcceptedAt)
	assert.ErrorIs(t, slot.Decline(), domain.ErrIllegalTransition)
	assert.ErrorIs(t, slot.Expire(), domain.ErrIllegalTransition)

	declined := &domain.InterviewSlot{Status: domain.SlotStatusProposed}
	assert.NoError(t, declined.Decline())
	assert.ErrorIs(t, declined.Accept(now), domain.ErrIllegalTransition)
	assert.Nil(t, declined.AcceptedAt)
}

func TestProposerFor(t *testing.T) {
	p, ok := domain.ProposerFor(domain.RoleCompany)
	assert.True(t, ok)
	assert.Equal(t, domain.ProposerCompany, p)

	p, ok = domain.ProposerFor(domain.RoleSeeker)
	assert.True(t, ok)
	assert.Equal(t, domain.ProposerSeeker, p)

	_, ok = domain.ProposerFor(domain.RoleAdmin)
	assert.False(t, ok)
}
