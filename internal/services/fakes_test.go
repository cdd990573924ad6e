package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// memUserRepo is an in-memory UserRepository for service tests
type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*models.User)}
}

func (r *memUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) ClearResetToken(userID uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return nil
}

func (r *memUserRepo) GetUsersWithActiveResetToken(now time.Time) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.ResetToken != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) SearchUsers(query string, excludeID uint, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		name := ""
		if u.DisplayName != nil {
			name = strings.ToLower(*u.DisplayName)
		}
		if strings.Contains(strings.ToLower(u.Email), q) || strings.Contains(name, q) {
			out = append(out, *u)
		}
		if len(out) == limit {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memFollowRepo is an in-memory FollowRepository. It resolves Follower and
// Following from the user repo the way gorm Preload would.
type memFollowRepo struct {
	mu     sync.Mutex
	nextID uint
	edges  map[uint]*models.Follow
	users  *memUserRepo
}

func newMemFollowRepo(users *memUserRepo) *memFollowRepo {
	return &memFollowRepo{edges: make(map[uint]*models.Follow), users: users}
}

func (r *memFollowRepo) CreateFollow(follow *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.edges {
		if e.FollowerID == follow.FollowerID && e.FollowingID == follow.FollowingID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	follow.ID = r.nextID
	follow.CreatedAt = time.Now()
	clone := *follow
	r.edges[follow.ID] = &clone
	return nil
}

func (r *memFollowRepo) GetFollowByID(id uint) (*models.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.edges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memFollowRepo) GetFollowByPair(followerID, followingID uint) (*models.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memFollowRepo) UpdateFollowStatus(id uint, status models.FollowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.edges[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (r *memFollowRepo) collect(match func(*models.Follow) bool, preload string) []models.Follow {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Follow
	for _, e := range r.edges {
		if !match(e) {
			continue
		}
		clone := *e
		if preload == "follower" {
			if u, err := r.users.GetUserByID(clone.FollowerID); err == nil {
				clone.Follower = u
			}
		}
		if preload == "following" {
			if u, err := r.users.GetUserByID(clone.FollowingID); err == nil {
				clone.Following = u
			}
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memFollowRepo) GetPendingSent(userID uint) ([]models.Follow, error) {
	return r.collect(func(e *models.Follow) bool {
		return e.FollowerID == userID && e.Status == models.FollowPending
	}, "following"), nil
}

func (r *memFollowRepo) GetPendingReceived(userID uint) ([]models.Follow, error) {
	return r.collect(func(e *models.Follow) bool {
		return e.FollowingID == userID && e.Status == models.FollowPending
	}, "follower"), nil
}

func (r *memFollowRepo) GetAcceptedFollowing(userID uint) ([]models.Follow, error) {
	return r.collect(func(e *models.Follow) bool {
		return e.FollowerID == userID && e.Status == models.FollowAccepted
	}, "following"), nil
}

func (r *memFollowRepo) GetAcceptedFollowers(userID uint) ([]models.Follow, error) {
	return r.collect(func(e *models.Follow) bool {
		return e.FollowingID == userID && e.Status == models.FollowAccepted
	}, "follower"), nil
}

func (r *memFollowRepo) GetAcceptedFollowingIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, e := range r.edges {
		if e.FollowerID == userID && e.Status == models.FollowAccepted {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

func (r *memFollowRepo) GetEdgesBetween(userID uint, otherIDs []uint) ([]models.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	other := make(map[uint]bool, len(otherIDs))
	for _, id := range otherIDs {
		other[id] = true
	}
	var out []models.Follow
	for _, e := range r.edges {
		if (e.FollowerID == userID && other[e.FollowingID]) ||
			(e.FollowingID == userID && other[e.FollowerID]) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// memJournalRepo is an in-memory JournalRepository
type memJournalRepo struct {
	mu      sync.Mutex
	entries []models.JournalEntry
}

func newMemJournalRepo() *memJournalRepo {
	return &memJournalRepo{}
}

func (r *memJournalRepo) CreateEntry(_ context.Context, entry *models.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().Add(time.Duration(len(r.entries)) * time.Millisecond)
	entry.UpdatedAt = entry.CreatedAt
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memJournalRepo) GetEntryByID(_ context.Context, id string) (*models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID.Hex() == id {
			clone := r.entries[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrEntryNotFound
}

func (r *memJournalRepo) GetEntriesByUserID(_ context.Context, userID uint) ([]models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.JournalEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memJournalRepo) GetPublicEntriesByUserIDs(_ context.Context, userIDs []uint, limit int64) ([]models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	authors := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		authors[id] = true
	}
	var out []models.JournalEntry
	for _, e := range r.entries {
		if e.IsPublic && authors[e.UserID] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJournalRepo) DeleteEntry(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID.Hex() == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEntryNotFound
}

// fakeMailer records dispatched reset tokens
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	email string
	token string
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, sentMail{email: toEmail, token: token})
	return nil
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].token
}

// fakeRemover records removed media filenames
type fakeRemover struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeRemover) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, name)
	return nil
}
