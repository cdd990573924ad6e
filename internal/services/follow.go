package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// FeedLimit caps the number of entries a single feed query returns
	FeedLimit = 50

	// SearchLimit caps discovery results
	SearchLimit = 50

	// MinSearchQueryLength is the hard floor below which search returns
	// nothing, so short queries cannot enumerate the user base
	MinSearchQueryLength = 3
)

// RequestResult is the outcome of a follow request
type RequestResult struct {
	Follow           *models.Follow
	Created          bool
	AlreadyFollowing bool
}

// FollowRequests groups pending requests by direction
type FollowRequests struct {
	Requests  []models.Follow `json:"requests"`
	Direction string          `json:"direction"`
}

// Connections holds a user's accepted follow lists in both directions
type Connections struct {
	Following []models.Connection `json:"following"`
	Followers []models.Connection `json:"followers"`
}

// FollowService runs the directed follow-edge state machine:
// none -> PENDING -> ACCEPTED | REJECTED, with REJECTED -> PENDING on
// re-request as the only way out of a terminal state.
type FollowService struct {
	logger      *zap.Logger
	followRepo  repositories.FollowRepository
	userRepo    repositories.UserRepository
	journalRepo repositories.JournalRepository
}

// NewFollowService creates a new FollowService
func NewFollowService(logger *zap.Logger, followRepo repositories.FollowRepository, userRepo repositories.UserRepository, journalRepo repositories.JournalRepository) *FollowService {
	return &FollowService{
		logger:      logger,
		followRepo:  followRepo,
		userRepo:    userRepo,
		journalRepo: journalRepo,
	}
}

// Request sends a follow request from requester to target. Repeating a
// pending or accepted request is idempotent; a rejected edge goes back to
// pending instead of creating a duplicate row.
func (s *FollowService) Request(requesterID, targetUserID uint) (*RequestResult, error) {
	if requesterID == targetUserID {
		return nil, ErrSelfFollow
	}

	if _, err := s.userRepo.GetUserByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to look up target user", zap.Error(err))
		return nil, ErrInternal
	}

	existing, err := s.followRepo.GetFollowByPair(requesterID, targetUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to look up follow edge", zap.Error(err))
		return nil, ErrInternal
	}

	if existing != nil {
		switch existing.Status {
		case models.FollowAccepted:
			return &RequestResult{Follow: existing, AlreadyFollowing: true}, nil
		case models.FollowPending:
			return &RequestResult{Follow: existing}, nil
		case models.FollowRejected:
			if err := s.followRepo.UpdateFollowStatus(existing.ID, models.FollowPending); err != nil {
				s.logger.Error("failed to re-request follow", zap.Error(err))
				return nil, ErrInternal
			}
			existing.Status = models.FollowPending
			return &RequestResult{Follow: existing, Created: true}, nil
		}
	}

	follow := &models.Follow{
		FollowerID:  requesterID,
		FollowingID: targetUserID,
		Status:      models.FollowPending,
	}
	if err := s.followRepo.CreateFollow(follow); err != nil {
		// The composite unique index closes the check-then-create race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if edge, gerr := s.followRepo.GetFollowByPair(requesterID, targetUserID); gerr == nil {
				return &RequestResult{Follow: edge, AlreadyFollowing: edge.Status == models.FollowAccepted}, nil
			}
		}
		s.logger.Error("failed to create follow edge", zap.Error(err))
		return nil, ErrInternal
	}
	return &RequestResult{Follow: follow, Created: true}, nil
}

// Accept transitions a pending request to accepted. Only the target of the
// edge may accept; accepting twice is idempotent.
func (s *FollowService) Accept(edgeID, callerID uint) (*models.Follow, error) {
	follow, err := s.getEdge(edgeID)
	if err != nil {
		return nil, err
	}
	if follow.FollowingID != callerID {
		return nil, ErrNotEdgeTarget
	}
	if follow.Status == models.FollowAccepted {
		return follow, nil
	}

	if err := s.followRepo.UpdateFollowStatus(follow.ID, models.FollowAccepted); err != nil {
		s.logger.Error("failed to accept follow request", zap.Error(err))
		return nil, ErrInternal
	}
	follow.Status = models.FollowAccepted
	return follow, nil
}

// Reject sets the edge to rejected unconditionally. Rejecting an accepted
// edge doubles as removing the follower.
func (s *FollowService) Reject(edgeID, callerID uint) (*models.Follow, error) {
	follow, err := s.getEdge(edgeID)
	if err != nil {
		return nil, err
	}
	if follow.FollowingID != callerID {
		return nil, ErrNotEdgeTarget
	}

	if err := s.followRepo.UpdateFollowStatus(follow.ID, models.FollowRejected); err != nil {
		s.logger.Error("failed to reject follow request", zap.Error(err))
		return nil, ErrInternal
	}
	follow.Status = models.FollowRejected
	return follow, nil
}

func (s *FollowService) getEdge(edgeID uint) (*models.Follow, error) {
	follow, err := s.followRepo.GetFollowByID(edgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEdgeNotFound
		}
		s.logger.Error("failed to look up follow edge", zap.Error(err))
		return nil, ErrInternal
	}
	return follow, nil
}

// ListRequests returns the user's pending requests, newest first. Direction
// is "sent" or "received"; anything else defaults to received.
func (s *FollowService) ListRequests(userID uint, direction string) (*FollowRequests, error) {
	if direction != "sent" {
		direction = "received"
	}

	var (
		follows []models.Follow
		err     error
	)
	if direction == "sent" {
		follows, err = s.followRepo.GetPendingSent(userID)
	} else {
		follows, err = s.followRepo.GetPendingReceived(userID)
	}
	if err != nil {
		s.logger.Error("failed to list follow requests", zap.Error(err))
		return nil, ErrInternal
	}

	return &FollowRequests{Requests: follows, Direction: direction}, nil
}

// ListConnections returns the accepted following and followers lists, each
// enriched with the counterpart's public profile and the edge creation time
func (s *FollowService) ListConnections(userID uint) (*Connections, error) {
	following, err := s.followRepo.GetAcceptedFollowing(userID)
	if err != nil {
		s.logger.Error("failed to list following", zap.Error(err))
		return nil, ErrInternal
	}
	followers, err := s.followRepo.GetAcceptedFollowers(userID)
	if err != nil {
		s.logger.Error("failed to list followers", zap.Error(err))
		return nil, ErrInternal
	}

	conns := &Connections{
		Following: make([]models.Connection, 0, len(following)),
		Followers: make([]models.Connection, 0, len(followers)),
	}
	for _, f := range following {
		if f.Following == nil {
			continue
		}
		conns.Following = append(conns.Following, models.Connection{
			ID:    f.ID,
			User:  f.Following.ToPublic(),
			Since: f.CreatedAt,
		})
	}
	for _, f := range followers {
		if f.Follower == nil {
			continue
		}
		conns.Followers = append(conns.Followers, models.Connection{
			ID:    f.ID,
			User:  f.Follower.ToPublic(),
			Since: f.CreatedAt,
		})
	}
	return conns, nil
}

// Feed returns the most recent public entries authored by the user's accepted
// followings or by the user themself, newest first. Self is always included,
// so a user's own public entries appear even with zero followings.
func (s *FollowService) Feed(ctx context.Context, userID uint) ([]models.FeedEntry, error) {
	followingIDs, err := s.followRepo.GetAcceptedFollowingIDs(userID)
	if err != nil {
		s.logger.Error("failed to collect following ids", zap.Error(err))
		return nil, ErrInternal
	}
	authorIDs := append(followingIDs, userID)

	entries, err := s.journalRepo.GetPublicEntriesByUserIDs(ctx, authorIDs, FeedLimit)
	if err != nil {
		s.logger.Error("failed to fetch feed entries", zap.Error(err))
		return nil, ErrInternal
	}

	authors, err := s.userRepo.GetUsersByIDs(authorIDs)
	if err != nil {
		s.logger.Error("failed to fetch feed authors", zap.Error(err))
		return nil, ErrInternal
	}
	authorMap := make(map[uint]models.PublicUser, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToPublic()
	}

	feed := make([]models.FeedEntry, 0, len(entries))
	for _, e := range entries {
		feed = append(feed, models.FeedEntry{
			JournalEntry: e,
			User:         authorMap[e.UserID],
		})
	}
	return feed, nil
}

// Search finds users by email or display name substring, excluding the
// caller, each result annotated with the caller's outgoing and incoming edge.
// Queries under three characters return nothing at all.
func (s *FollowService) Search(callerID uint, query string) ([]models.SearchResult, error) {
	results := make([]models.SearchResult, 0)
	if utf8.RuneCountInString(query) < MinSearchQueryLength {
		return results, nil
	}

	users, err := s.userRepo.SearchUsers(query, callerID, SearchLimit)
	if err != nil {
		s.logger.Error("failed to search users", zap.Error(err))
		return nil, ErrInternal
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	// One batched query for both directions, instead of per-row lookups
	edges, err := s.followRepo.GetEdgesBetween(callerID, ids)
	if err != nil {
		s.logger.Error("failed to fetch edges for search results", zap.Error(err))
		return nil, ErrInternal
	}

	outgoing := make(map[uint]models.EdgeRef, len(edges))
	incoming := make(map[uint]models.EdgeRef, len(edges))
	for _, e := range edges {
		if e.FollowerID == callerID {
			outgoing[e.FollowingID] = models.EdgeRef{ID: e.ID, Status: e.Status}
		} else {
			incoming[e.FollowerID] = models.EdgeRef{ID: e.ID, Status: e.Status}
		}
	}

	for _, u := range users {
		result := models.SearchResult{PublicUser: u.ToPublic()}
		if ref, ok := outgoing[u.ID]; ok {
			refCopy := ref
			result.OutgoingRequest = &refCopy
		}
		if ref, ok := incoming[u.ID]; ok {
			refCopy := ref
			result.IncomingRequest = &refCopy
		}
		results = append(results, result)
	}
	return results, nil
}
