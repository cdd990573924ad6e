package services

import (
	"context"
	"errors"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/repositories"
	"go.uber.org/zap"
)

// ErrNotEntryOwner is returned when a caller acts on someone else's entry
var ErrNotEntryOwner = errors.New("you do not own this journal entry")

// FileRemover deletes stored media by name
type FileRemover interface {
	Remove(name string) error
}

// EntryAttachments holds stored media filenames for a new entry
type EntryAttachments struct {
	AudioPath string
	ImagePath string
	VideoPath string
}

// JournalService owns journal entries and their media files
type JournalService struct {
	logger *zap.Logger
	repo   repositories.JournalRepository
	files  FileRemover
}

// NewJournalService creates a new JournalService
func NewJournalService(logger *zap.Logger, repo repositories.JournalRepository, files FileRemover) *JournalService {
	return &JournalService{
		logger: logger,
		repo:   repo,
		files:  files,
	}
}

// Create persists a new entry for the user
func (s *JournalService) Create(ctx context.Context, userID uint, text string, isPublic bool, attachments EntryAttachments) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{
		UserID:    userID,
		Text:      text,
		AudioPath: attachments.AudioPath,
		ImagePath: attachments.ImagePath,
		VideoPath: attachments.VideoPath,
		IsPublic:  isPublic,
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to create journal entry", zap.Error(err))
		return nil, ErrInternal
	}
	return entry, nil
}

// ListMine returns the caller's entries, newest first
func (s *JournalService) ListMine(ctx context.Context, userID uint) ([]models.JournalEntry, error) {
	entries, err := s.repo.GetEntriesByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list journal entries", zap.Error(err))
		return nil, ErrInternal
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}

// Get returns an entry when the caller owns it or it is public
func (s *JournalService) Get(ctx context.Context, id string, callerID uint) (*models.JournalEntry, error) {
	entry, err := s.repo.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, repositories.ErrEntryNotFound
		}
		s.logger.Error("failed to fetch journal entry", zap.Error(err))
		return nil, ErrInternal
	}
	if entry.UserID != callerID && !entry.IsPublic {
		return nil, ErrNotEntryOwner
	}
	return entry, nil
}

// Delete removes the caller's entry and best-effort removes its media files
func (s *JournalService) Delete(ctx context.Context, id string, callerID uint) error {
	entry, err := s.repo.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return repositories.ErrEntryNotFound
		}
		s.logger.Error("failed to fetch journal entry", zap.Error(err))
		return ErrInternal
	}
	if entry.UserID != callerID {
		return ErrNotEntryOwner
	}

	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		s.logger.Error("failed to delete journal entry", zap.Error(err))
		return ErrInternal
	}

	for _, name := range []string{entry.AudioPath, entry.ImagePath, entry.VideoPath} {
		if name == "" {
			continue
		}
		if err := s.files.Remove(name); err != nil {
			s.logger.Warn("failed to remove media file", zap.String("file", name), zap.Error(err))
		}
	}
	return nil
}
