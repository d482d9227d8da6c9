package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVote(t *testing.T) {
	v, err := ParseVote("upvote")
	require.NoError(t, err)
	assert.Equal(t, VoteUp, v)

	v, err = ParseVote("downvote")
	require.NoError(t, err)
	assert.Equal(t, VoteDown, v)

	_, err = ParseVote("")
	assert.Error(t, err)

	_, err = ParseVote("sideways")
	assert.Error(t, err)
}

func TestVote_Transition(t *testing.T) {
	cases := []struct {
		name      string
		current   Vote
		requested Vote
		want      Vote
	}{
		{"none then up", VoteNone, VoteUp, VoteUp},
		{"none then down", VoteNone, VoteDown, VoteDown},
		{"up again retracts", VoteUp, VoteUp, VoteNone},
		{"down again retracts", VoteDown, VoteDown, VoteNone},
		{"up then down replaces", VoteUp, VoteDown, VoteDown},
		{"down then up replaces", VoteDown, VoteUp, VoteUp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.current.Transition(tc.requested))
		})
	}
}

// Repeating the same request twice must always land back where it started.
func TestVote_TransitionSelfInverse(t *testing.T) {
	for _, start := range []Vote{VoteNone, VoteUp, VoteDown} {
		for _, req := range []Vote{VoteUp, VoteDown} {
			once := start.Transition(req)
			twice := once.Transition(req)
			assert.Equal(t, start, twice, "start=%q req=%q", start, req)
		}
	}
}

func TestDeltaBetween(t *testing.T) {
	cases := []struct {
		name    string
		current Vote
		next    Vote
		want    VoteDelta
	}{
		{"none to up", VoteNone, VoteUp, VoteDelta{Upvotes: 1}},
		{"none to down", VoteNone, VoteDown, VoteDelta{Downvotes: 1}},
		{"up to none", VoteUp, VoteNone, VoteDelta{Upvotes: -1}},
		{"down to none", VoteDown, VoteNone, VoteDelta{Downvotes: -1}},
		{"up to down", VoteUp, VoteDown, VoteDelta{Upvotes: -1, Downvotes: 1}},
		{"down to up", VoteDown, VoteUp, VoteDelta{Upvotes: 1, Downvotes: -1}},
		{"no change", VoteUp, VoteUp, VoteDelta{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeltaBetween(tc.current, tc.next)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.current == tc.next, got.IsZero())
		})
	}
}

func TestVoteDelta_Negate(t *testing.T) {
	d := VoteDelta{Upvotes: -1, Downvotes: 1}
	assert.Equal(t, VoteDelta{Upvotes: 1, Downvotes: -1}, d.Negate())
	assert.True(t, d.Negate().Negate() == d)
}
