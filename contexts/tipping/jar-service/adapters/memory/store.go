package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"tipdrop/contexts/tipping/jar-service/domain/entities"
	"tipdrop/contexts/tipping/jar-service/ports"
)

// Store is the in-memory tipping store used by tests and local runs.
type Store struct {
	mu       sync.Mutex
	tips     []entities.Tip
	wallets  map[string]entities.WalletProfile
	balances map[string]entities.JarBalance
	sequence uint64
}

func NewStore() *Store {
	return &Store{
		wallets:  make(map[string]entities.WalletProfile),
		balances: make(map[string]entities.JarBalance),
	}
}

func (s *Store) CreateTip(_ context.Context, tip entities.Tip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tips = append(s.tips, tip)
	return nil
}

func (s *Store) ListTipFeed(_ context.Context, limit int) ([]entities.TipFeedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tips := append([]entities.Tip(nil), s.tips...)
	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].CreatedAt.After(tips[j].CreatedAt)
	})
	if len(tips) > limit {
		tips = tips[:limit]
	}

	items := make([]entities.TipFeedItem, 0, len(tips))
	for _, tip := range tips {
		item := entities.TipFeedItem{Tip: tip}
		if profile, ok := s.wallets[tip.SenderWallet]; ok {
			item.SenderHandle = profile.TwitterHandle
			item.SenderAvatarURL = profile.AvatarURL
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) UnclaimedTotals(_ context.Context, authorHandle string) (entities.UnclaimedTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := entities.UnclaimedTotals{AuthorHandle: authorHandle}
	for _, tip := range s.tips {
		if tip.AuthorHandle != authorHandle || tip.Claimed {
			continue
		}
		switch tip.Token {
		case entities.TokenAVAX:
			totals.AVAX = totals.AVAX.Add(tip.Amount)
		case entities.TokenUSDC:
			totals.USDC = totals.USDC.Add(tip.Amount)
		}
	}
	return totals, nil
}

func (s *Store) UpsertWallet(_ context.Context, profile entities.WalletProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[profile.WalletAddress] = profile
	return nil
}

func (s *Store) GetWallet(_ context.Context, walletAddress string) (entities.WalletProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.wallets[walletAddress]
	return profile, ok, nil
}

func (s *Store) UpsertBalance(_ context.Context, balance entities.JarBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balance.WalletAddress] = balance
	return nil
}

func (s *Store) GetBalance(_ context.Context, walletAddress string) (entities.JarBalance, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[walletAddress]
	return balance, ok, nil
}

func (s *Store) ListTrackedWallets(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallets := make([]string, 0, len(s.balances))
	for wallet := range s.balances {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)
	return wallets, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("tip-%d", value), nil
}

var (
	_ ports.TipRepository        = (*Store)(nil)
	_ ports.WalletRepository     = (*Store)(nil)
	_ ports.JarBalanceRepository = (*Store)(nil)
	_ ports.Clock                = (*Store)(nil)
	_ ports.IDGenerator          = (*Store)(nil)
)
