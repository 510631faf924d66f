package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/storage"
	"github.com/google/uuid"
)

// ArchiveService uploads a point-in-time JSON copy of a composed match.
type ArchiveService interface {
	ArchiveMatch(ctx context.Context, matchID uuid.UUID) (*ArchiveResult, error)
}

type ArchiveResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url,omitempty"`
	ETag       string    `json:"etag,omitempty"`
	ArchivedAt time.Time `json:"archivedAt"`
}

type scorecardSnapshot struct {
	ArchivedAt time.Time     `json:"archivedAt"`
	Match      *models.Match `json:"match"`
}

type archiveService struct {
	matchService MatchService
	objects      storage.ObjectStore
	now          func() time.Time
}

// NewArchiveService returns a service that fails with ErrArchiveDisabled when objects is nil.
func NewArchiveService(matchService MatchService, objects storage.ObjectStore) ArchiveService {
	return &archiveService{
		matchService: matchService,
		objects:      objects,
		now:          time.Now,
	}
}

func (s *archiveService) ArchiveMatch(ctx context.Context, matchID uuid.UUID) (*ArchiveResult, error) {
	if s.objects == nil {
		return nil, ErrArchiveDisabled
	}

	match, err := s.matchService.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	archivedAt := s.now().UTC()
	body, err := json.Marshal(scorecardSnapshot{ArchivedAt: archivedAt, Match: match})
	if err != nil {
		return nil, fmt.Errorf("%w: encode match %s: %w", ErrArchiveFailed, matchID, err)
	}

	key := fmt.Sprintf("scorecards/%s/%s.json", matchID, archivedAt.Format("20060102T150405.000000Z"))
	put, err := s.objects.Put(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}

	return &ArchiveResult{
		Key:        put.Key,
		URL:        put.Location,
		ETag:       put.ETag,
		ArchivedAt: archivedAt,
	}, nil
}
