package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdesk-backend/domain/core/valueobjects"
)

func TestVoteLedger_GetDefaultsToNone(t *testing.T) {
	ctx := context.Background()
	ledger := NewVoteLedgerRepository()

	vote, err := ledger.Get(ctx, "alice", valueobjects.NewNoteID())
	require.NoError(t, err)
	assert.True(t, vote.IsNone())
}

func TestVoteLedger_SetAndGet(t *testing.T) {
	ctx := context.Background()
	ledger := NewVoteLedgerRepository()
	noteID := valueobjects.NewNoteID()

	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteUp))
	vote, err := ledger.Get(ctx, "alice", noteID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.VoteUp, vote)

	// Replacing overwrites rather than accumulating.
	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteDown))
	vote, err = ledger.Get(ctx, "alice", noteID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.VoteDown, vote)
}

func TestVoteLedger_SetNoneRemovesEntry(t *testing.T) {
	ctx := context.Background()
	ledger := NewVoteLedgerRepository()
	noteID := valueobjects.NewNoteID()

	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteUp))
	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteNone))

	vote, err := ledger.Get(ctx, "alice", noteID)
	require.NoError(t, err)
	assert.True(t, vote.IsNone())

	ups, downs, err := ledger.CountByNote(ctx, noteID)
	require.NoError(t, err)
	assert.Equal(t, 0, ups)
	assert.Equal(t, 0, downs)
}

func TestVoteLedger_CountByNote(t *testing.T) {
	ctx := context.Background()
	ledger := NewVoteLedgerRepository()
	noteID := valueobjects.NewNoteID()
	otherNote := valueobjects.NewNoteID()

	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteUp))
	require.NoError(t, ledger.Set(ctx, "bob", noteID, valueobjects.VoteUp))
	require.NoError(t, ledger.Set(ctx, "carol", noteID, valueobjects.VoteDown))
	require.NoError(t, ledger.Set(ctx, "alice", otherNote, valueobjects.VoteDown))

	ups, downs, err := ledger.CountByNote(ctx, noteID)
	require.NoError(t, err)
	assert.Equal(t, 2, ups)
	assert.Equal(t, 1, downs)

	ups, downs, err = ledger.CountByNote(ctx, otherNote)
	require.NoError(t, err)
	assert.Equal(t, 0, ups)
	assert.Equal(t, 1, downs)
}

func TestVoteLedger_PairsAreIndependent(t *testing.T) {
	ctx := context.Background()
	ledger := NewVoteLedgerRepository()
	noteID := valueobjects.NewNoteID()

	require.NoError(t, ledger.Set(ctx, "alice", noteID, valueobjects.VoteUp))
	require.NoError(t, ledger.Set(ctx, "bob", noteID, valueobjects.VoteDown))

	aliceVote, err := ledger.Get(ctx, "alice", noteID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.VoteUp, aliceVote)

	bobVote, err := ledger.Get(ctx, "bob", noteID)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.VoteDown, bobVote)
}
