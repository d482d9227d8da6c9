package valueobjects

import (
	"fmt"

	pkgerrors "paperdesk-backend/pkg/errors"
)

// Vote represents one user's vote on one note
type Vote string

const (
	// VoteNone means the user has no recorded vote
	VoteNone Vote = ""
	// VoteUp is an upvote
	VoteUp Vote = "upvote"
	// VoteDown is a downvote
	VoteDown Vote = "downvote"
)

// ParseVote converts a wire-level string into a Vote
func ParseVote(s string) (Vote, error) {
	switch Vote(s) {
	case VoteUp, VoteDown:
		return Vote(s), nil
	default:
		return VoteNone, pkgerrors.NewValidationError(
			fmt.Sprintf("invalid vote %q: must be %q or %q", s, VoteUp, VoteDown))
	}
}

// IsNone reports whether no vote is recorded
func (v Vote) IsNone() bool {
	return v == VoteNone
}

// Transition applies the vote state machine: requesting the current vote
// again retracts it; any other request replaces the current vote.
// Requesting the same vote twice is therefore self-inverse.
func (v Vote) Transition(requested Vote) Vote {
	if requested == v {
		return VoteNone
	}
	return requested
}

// VoteDelta is the counter adjustment implied by a vote transition
type VoteDelta struct {
	Upvotes   int
	Downvotes int
}

// IsZero reports whether the delta changes nothing
func (d VoteDelta) IsZero() bool {
	return d.Upvotes == 0 && d.Downvotes == 0
}

// Negate returns the inverse delta, used to roll a transition back
func (d VoteDelta) Negate() VoteDelta {
	return VoteDelta{Upvotes: -d.Upvotes, Downvotes: -d.Downvotes}
}

// DeltaBetween computes the counter adjustment for moving from the current
// vote state to the next one:
//
//	None     -> Upvoted    +1 up
//	None     -> Downvoted  +1 down
//	Upvoted  -> None       -1 up
//	Downvoted-> None       -1 down
//	Upvoted  -> Downvoted  -1 up, +1 down
//	Downvoted-> Upvoted    +1 up, -1 down
func DeltaBetween(current, next Vote) VoteDelta {
	var d VoteDelta

	switch current {
	case VoteUp:
		d.Upvotes--
	case VoteDown:
		d.Downvotes--
	}

	switch next {
	case VoteUp:
		d.Upvotes++
	case VoteDown:
		d.Downvotes++
	}

	return d
}
