package models

import "time"

// FollowStatus is the approval state of a directed follow edge
type FollowStatus string

const (
	FollowPending  FollowStatus = "PENDING"
	FollowAccepted FollowStatus = "ACCEPTED"
	FollowRejected FollowStatus = "REJECTED"
)

// Follow represents a directed follow request between two users. At most one
// edge exists per ordered (follower, following) pair.
type Follow struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	FollowerID  uint         `json:"followerId" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint         `json:"followingId" gorm:"index;uniqueIndex:idx_follower_following"`
	Status      FollowStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	CreatedAt   time.Time    `json:"createdAt"`

	Follower  *User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Following *User `json:"following,omitempty" gorm:"foreignKey:FollowingID"`
}

// CreateFollowRequest defines the request body for sending a follow request
type CreateFollowRequest struct {
	TargetUserID uint `json:"targetUserId" validate:"required"`
}

// Connection is one entry of a following/followers list
type Connection struct {
	ID    uint       `json:"id"`
	User  PublicUser `json:"user"`
	Since time.Time  `json:"since"`
}

// SearchResult is a discovered user annotated with the caller's edges to them
type SearchResult struct {
	PublicUser
	OutgoingRequest *EdgeRef `json:"outgoingRequest"`
	IncomingRequest *EdgeRef `json:"incomingRequest"`
}

// EdgeRef references a follow edge by id and status
type EdgeRef struct {
	ID     uint         `json:"id"`
	Status FollowStatus `json:"status"`
}
