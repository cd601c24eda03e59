package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	application "tipdrop/contexts/distribution/drop-service/application"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/ports"
)

// Store is an in-memory adapter implementing the drop registry ports for
// local runtime and tests. It enforces the same uniqueness rules as the
// Postgres schema: drop_id primary key and short_code unique index.
type Store struct {
	mu          sync.RWMutex
	drops       map[string]entities.Drop
	byShortCode map[string]string
	logger      *slog.Logger
}

func NewStore(seed []entities.Drop, logger *slog.Logger) *Store {
	store := &Store{
		drops:       make(map[string]entities.Drop, len(seed)),
		byShortCode: make(map[string]string, len(seed)),
		logger:      application.ResolveLogger(logger),
	}
	for _, drop := range seed {
		store.drops[drop.DropID] = drop
		if drop.ShortCode != "" {
			store.byShortCode[drop.ShortCode] = drop.DropID
		}
	}
	return store
}

func (s *Store) CreateDrop(_ context.Context, drop entities.Drop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.drops[drop.DropID]; exists {
		return domainerrors.ErrDropExists
	}
	if _, taken := s.byShortCode[drop.ShortCode]; taken {
		return domainerrors.ErrShortCodeTaken
	}
	s.drops[drop.DropID] = drop
	s.byShortCode[drop.ShortCode] = drop.DropID
	return nil
}

func (s *Store) GetDrop(_ context.Context, dropID string) (entities.Drop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drop, ok := s.drops[strings.TrimSpace(dropID)]
	if !ok {
		return entities.Drop{}, domainerrors.ErrDropNotFound
	}
	return drop, nil
}

func (s *Store) GetDropByShortCode(_ context.Context, shortCode string) (entities.Drop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dropID, ok := s.byShortCode[strings.TrimSpace(shortCode)]
	if !ok {
		return entities.Drop{}, domainerrors.ErrShortCodeNotFound
	}
	return s.drops[dropID], nil
}

func (s *Store) ShortCodeExists(_ context.Context, shortCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.byShortCode[strings.TrimSpace(shortCode)]
	return taken, nil
}

func (s *Store) ListDropsByCreator(_ context.Context, creatorWallet string) ([]entities.Drop, error) {
	wallet := strings.ToLower(strings.TrimSpace(creatorWallet))

	s.mu.RLock()
	defer s.mu.RUnlock()

	drops := make([]entities.Drop, 0)
	for _, drop := range s.drops {
		if strings.ToLower(drop.CreatorWallet) == wallet {
			drops = append(drops, drop)
		}
	}
	sort.Slice(drops, func(i, j int) bool {
		return drops[i].CreatedAt.After(drops[j].CreatedAt)
	})
	return drops, nil
}

func (s *Store) IncrementClaimsCount(_ context.Context, dropID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop, ok := s.drops[strings.TrimSpace(dropID)]
	if !ok {
		return domainerrors.ErrDropNotFound
	}
	drop.ClaimsCount++
	s.drops[drop.DropID] = drop
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
