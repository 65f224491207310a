package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVoteSets_UpvoteToggle(t *testing.T) {
	voter := primitive.NewObjectID()
	v := &VoteSets{}

	added := v.ToggleUpvote(voter)
	require.True(t, added)
	assert.True(t, v.HasUpvoted(voter))
	assert.Len(t, v.Upvotes, 1)

	// same vote again undoes it
	added = v.ToggleUpvote(voter)
	require.False(t, added)
	assert.False(t, v.HasUpvoted(voter))
	assert.Empty(t, v.Upvotes)
	assert.Empty(t, v.Downvotes)
}

func TestVoteSets_OppositeVoteSwaps(t *testing.T) {
	voter := primitive.NewObjectID()
	v := &VoteSets{}

	v.ToggleUpvote(voter)
	added := v.ToggleDownvote(voter)

	require.True(t, added)
	assert.False(t, v.HasUpvoted(voter), "downvote must clear the upvote")
	assert.True(t, v.HasDownvoted(voter))
	assert.Len(t, v.Downvotes, 1)
	assert.Empty(t, v.Upvotes)
}

func TestVoteSets_IndependentVoters(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	v := &VoteSets{}

	v.ToggleUpvote(a)
	v.ToggleDownvote(b)
	v.ToggleUpvote(a) // a un-votes

	assert.False(t, v.HasUpvoted(a))
	assert.True(t, v.HasDownvoted(b), "b's vote must survive a's toggling")
}

func TestVoteSets_NoDuplicates(t *testing.T) {
	voter := primitive.NewObjectID()
	v := &VoteSets{}

	for i := 0; i < 5; i++ {
		v.ToggleUpvote(voter)
	}

	assert.True(t, v.HasUpvoted(voter))
	assert.Len(t, v.Upvotes, 1)
}

func TestQuestion_AcceptAnswer(t *testing.T) {
	first := Answer{ID: primitive.NewObjectID()}
	second := Answer{ID: primitive.NewObjectID()}
	q := &Question{Answers: []Answer{first, second}}

	require.True(t, q.AcceptAnswer(first.ID))
	assert.True(t, q.Answers[0].IsAccepted)
	assert.False(t, q.Answers[1].IsAccepted)

	// accepting another answer implicitly un-accepts the previous one
	require.True(t, q.AcceptAnswer(second.ID))
	assert.False(t, q.Answers[0].IsAccepted)
	assert.True(t, q.Answers[1].IsAccepted)
}

func TestQuestion_AcceptAnswer_MissingTargetLeavesStateAlone(t *testing.T) {
	accepted := Answer{ID: primitive.NewObjectID(), IsAccepted: true}
	q := &Question{Answers: []Answer{accepted}}

	require.False(t, q.AcceptAnswer(primitive.NewObjectID()))
	assert.True(t, q.Answers[0].IsAccepted)
}

func TestQuestion_AnswerAndReplyLookup(t *testing.T) {
	reply := Reply{ID: primitive.NewObjectID(), Content: "works for me"}
	answer := Answer{ID: primitive.NewObjectID(), Replies: []Reply{reply}}
	q := &Question{Answers: []Answer{answer}}

	found := q.Answer(answer.ID)
	require.NotNil(t, found)
	require.NotNil(t, found.Reply(reply.ID))
	assert.Equal(t, "works for me", found.Reply(reply.ID).Content)

	assert.Nil(t, q.Answer(primitive.NewObjectID()))
	assert.Nil(t, found.Reply(primitive.NewObjectID()))
}

func TestQuestion_CountsViewBy(t *testing.T) {
	author := primitive.NewObjectID()
	q := &Question{ID: primitive.NewObjectID(), Author: author}

	assert.False(t, q.CountsViewBy(nil), "anonymous reads never count")
	assert.False(t, q.CountsViewBy(&User{ID: author}), "author reads never count")

	viewer := &User{ID: primitive.NewObjectID()}
	assert.True(t, q.CountsViewBy(viewer))

	viewer.ViewedQuestions = append(viewer.ViewedQuestions, q.ID)
	assert.False(t, q.CountsViewBy(viewer), "second read must not count")
}
