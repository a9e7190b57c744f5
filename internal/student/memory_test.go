package student

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, err := m.Create(ctx, Student{Name: "A", Phone: "1"})
	require.NoError(t, err)
	b, err := m.Create(ctx, Student{Name: "B", Phone: "2"})
	require.NoError(t, err)

	got, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID, "most recent first")
	assert.Equal(t, a.ID, got[1].ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFindByPhoneTrimsQuery(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Create(ctx, Student{Name: "Jane", Phone: "5551234"})
	require.NoError(t, err)

	got, err := m.FindByPhone(ctx, "5551234 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.Name)

	// Stored values are compared as-is, so an untrimmed stored phone does not
	// match its trimmed spelling.
	_, err = m.Create(ctx, Student{Name: "Pad", Phone: " 777 "})
	require.NoError(t, err)
	got, err = m.FindByPhone(ctx, "777")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByPhoneMiss(t *testing.T) {
	m := NewMemory()
	got, err := m.FindByPhone(context.Background(), "0000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByPhoneDuplicateTakesNewest(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Create(ctx, Student{Name: "Old", Phone: "5551234"})
	require.NoError(t, err)
	_, err = m.Create(ctx, Student{Name: "New", Phone: "5551234"})
	require.NoError(t, err)

	got, err := m.FindByPhone(ctx, "5551234")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Name)
}

func TestUpdatePartialMerge(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s, err := m.Create(ctx, Student{Name: "Jane", Phone: "5551234", Marks: 50, Result: "Fail"})
	require.NoError(t, err)

	marks := 88
	result := "Pass"
	updated, err := m.Update(ctx, s.ID, Update{Marks: &marks, Result: &result})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 88, updated.Marks)
	assert.Equal(t, "Pass", updated.Result)
	assert.Equal(t, "Jane", updated.Name, "untouched fields survive")
	assert.Equal(t, "5551234", updated.Phone)
}

func TestUpdateUnknownID(t *testing.T) {
	m := NewMemory()
	name := "X"
	updated, err := m.Update(context.Background(), "missing", Update{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s, err := m.Create(ctx, Student{Name: "Jane", Phone: "1"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.ID))
	got, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Unknown id is a no-op.
	require.NoError(t, m.Delete(ctx, "missing"))
}

func TestReplaceAll(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	old, err := m.Create(ctx, Student{Name: "Old", Phone: "1"})
	require.NoError(t, err)

	inserted, err := m.ReplaceAll(ctx, []Student{
		{Name: "A", Phone: "2"},
		{Name: "B", Phone: "3"},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	for _, s := range inserted {
		assert.NotEmpty(t, s.ID)
		assert.NotEqual(t, old.ID, s.ID, "replace-all assigns fresh ids")
	}

	got, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestReplaceAllEmptyInputEmptiesDirectory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Create(ctx, Student{Name: "Old", Phone: "1"})
	require.NoError(t, err)

	inserted, err := m.ReplaceAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, inserted)

	got, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClockIsUsedForTimestamps(t *testing.T) {
	m := NewMemory()
	frozen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return frozen }

	s, err := m.Create(context.Background(), Student{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, frozen, s.CreatedAt)
	assert.Equal(t, frozen, s.UpdatedAt)
}
