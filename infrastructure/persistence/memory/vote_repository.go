package memory

import (
	"context"
	"sync"

	"paperdesk-backend/domain/core/valueobjects"
)

// VoteLedgerRepository is the in-memory vote ledger. It holds at most one
// vote per (user, note) pair and serves as the ground truth the note
// counters must reconcile with.
type VoteLedgerRepository struct {
	mu    sync.RWMutex
	votes map[string]valueobjects.Vote // key: userID + "#" + noteID
}

// NewVoteLedgerRepository creates an empty vote ledger
func NewVoteLedgerRepository() *VoteLedgerRepository {
	return &VoteLedgerRepository{
		votes: make(map[string]valueobjects.Vote),
	}
}

func ledgerKey(userID string, noteID valueobjects.NoteID) string {
	return userID + "#" + noteID.String()
}

// Get returns the recorded vote, VoteNone when absent
func (r *VoteLedgerRepository) Get(ctx context.Context, userID string, noteID valueobjects.NoteID) (valueobjects.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vote, exists := r.votes[ledgerKey(userID, noteID)]
	if !exists {
		return valueobjects.VoteNone, nil
	}
	return vote, nil
}

// Set records a vote; VoteNone removes the entry
func (r *VoteLedgerRepository) Set(ctx context.Context, userID string, noteID valueobjects.NoteID, vote valueobjects.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerKey(userID, noteID)
	if vote == valueobjects.VoteNone {
		delete(r.votes, key)
		return nil
	}
	r.votes[key] = vote
	return nil
}

// CountByNote tallies recorded upvotes and downvotes for a note
func (r *VoteLedgerRepository) CountByNote(ctx context.Context, noteID valueobjects.NoteID) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suffix := "#" + noteID.String()
	upvotes, downvotes := 0, 0
	for key, vote := range r.votes {
		if len(key) < len(suffix) || key[len(key)-len(suffix):] != suffix {
			continue
		}
		switch vote {
		case valueobjects.VoteUp:
			upvotes++
		case valueobjects.VoteDown:
			downvotes++
		}
	}
	return upvotes, downvotes, nil
}
