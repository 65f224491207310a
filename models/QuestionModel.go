package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteSets holds the split upvote/downvote membership sets shared by
// questions, answers and replies. A voter is in at most one of the two sets.
type VoteSets struct {
	Upvotes   []primitive.ObjectID `json:"upvotes" bson:"upvotes"`
	Downvotes []primitive.ObjectID `json:"downvotes" bson:"downvotes"`
}

func (v *VoteSets) HasUpvoted(voter primitive.ObjectID) bool {
	return contains(v.Upvotes, voter)
}

func (v *VoteSets) HasDownvoted(voter primitive.ObjectID) bool {
	return contains(v.Downvotes, voter)
}

// ToggleUpvote adds the voter's upvote, clearing any standing downvote. A
// second identical call removes the upvote. Reports whether the upvote is
// present afterwards.
func (v *VoteSets) ToggleUpvote(voter primitive.ObjectID) bool {
	if removed := remove(&v.Upvotes, voter); removed {
		return false
	}
	remove(&v.Downvotes, voter)
	v.Upvotes = append(v.Upvotes, voter)
	return true
}

// ToggleDownvote is the mirror of ToggleUpvote.
func (v *VoteSets) ToggleDownvote(voter primitive.ObjectID) bool {
	if removed := remove(&v.Downvotes, voter); removed {
		return false
	}
	remove(&v.Upvotes, voter)
	v.Downvotes = append(v.Downvotes, voter)
	return true
}

func contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}

func remove(set *[]primitive.ObjectID, id primitive.ObjectID) bool {
	for i, member := range *set {
		if member == id {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}

type Reply struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Content   string             `json:"content" bson:"content"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	VoteSets  `bson:",inline"`
}

type Answer struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Author     primitive.ObjectID `json:"author" bson:"author"`
	IsAccepted bool               `json:"isAccepted" bson:"isAccepted"`
	Replies    []Reply            `json:"replies" bson:"replies"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	VoteSets   `bson:",inline"`
}

// Reply returns the embedded reply with the given id, or nil.
func (a *Answer) Reply(id primitive.ObjectID) *Reply {
	for i := range a.Replies {
		if a.Replies[i].ID == id {
			return &a.Replies[i]
		}
	}
	return nil
}

type Question struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Slug        string             `json:"slug" bson:"slug"`
	Author      primitive.ObjectID `json:"author" bson:"author"`
	Answers     []Answer           `json:"answers" bson:"answers"`
	Tags        []string           `json:"tags" bson:"tags"`
	Images      []string           `json:"images" bson:"images"`
	Views       int64              `json:"views" bson:"views"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	VoteSets    `bson:",inline"`
}

// Answer returns the embedded answer with the given id, or nil.
func (q *Question) Answer(id primitive.ObjectID) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i]
		}
	}
	return nil
}

// AcceptAnswer clears every answer's accepted flag and marks the target, so
// at most one answer is accepted at any time. Reports whether the target
// answer exists.
func (q *Question) AcceptAnswer(answerID primitive.ObjectID) bool {
	target := q.Answer(answerID)
	if target == nil {
		return false
	}
	for i := range q.Answers {
		q.Answers[i].IsAccepted = false
	}
	target.IsAccepted = true
	return true
}

// CountsViewBy reports whether a read by viewer should increment the view
// counter: authors never count, and a viewer counts only once.
func (q *Question) CountsViewBy(viewer *User) bool {
	if viewer == nil || viewer.ID == q.Author {
		return false
	}
	return !viewer.HasViewed(q.ID)
}
