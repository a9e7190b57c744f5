package recheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitStartsPending(t *testing.T) {
	m := NewMemory()

	req, err := m.Submit(context.Background(), Request{
		StudentName: "Jane Doe",
		Phone:       "5551234",
		Email:       "jane@x.com",
		RollNumber:  "R100",
		Reason:      "marks do not match what was announced in class",
		Status:      StatusApproved, // caller-supplied status is ignored
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, StatusPending, req.Status)
	assert.False(t, req.SubmittedAt.IsZero())
}

func TestListNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.Submit(ctx, Request{StudentName: "First"})
	require.NoError(t, err)
	second, err := m.Submit(ctx, Request{StudentName: "Second"})
	require.NoError(t, err)

	got, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestSetStatusOverwritesWithoutGuard(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	req, err := m.Submit(ctx, Request{StudentName: "Jane"})
	require.NoError(t, err)

	found, err := m.SetStatus(ctx, req.ID, StatusApproved)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got[0].Status)

	// A decided request can still be overwritten; there is no terminal guard
	// at the store level.
	found, err = m.SetStatus(ctx, req.ID, StatusRejected)
	require.NoError(t, err)
	assert.True(t, found)

	got, err = m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got[0].Status)
}

func TestSetStatusUnknownID(t *testing.T) {
	m := NewMemory()
	found, err := m.SetStatus(context.Background(), "missing", StatusApproved)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(StatusApproved))
	assert.True(t, ValidDecision(StatusRejected))
	assert.False(t, ValidDecision(StatusPending))
	assert.False(t, ValidDecision("cancelled"))
	assert.False(t, ValidDecision(""))
}
