package dropservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	dropservice "tipdrop/contexts/distribution/drop-service"
	"tipdrop/contexts/distribution/drop-service/adapters/memory"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	domainerrors "tipdrop/contexts/distribution/drop-service/domain/errors"
	"tipdrop/contexts/distribution/drop-service/domain/services"
	httptransport "tipdrop/contexts/distribution/drop-service/transport/http"
	"tipdrop/internal/platform/messaging"
	"tipdrop/internal/shared/events"
)

const (
	baseURL       = "https://tipdrop.example"
	creatorWallet = "0x1111111111111111111111111111111111111111"
)

func TestCreateDropWithWhitelist(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)

	resp, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "avax",
		Amount:        "0.5",
		Whitelist:     []string{"0xAAAA000000000000000000000000000000000001", "0xaaaa000000000000000000000000000000000002"},
		CreatorWallet: creatorWallet,
		TwitterHandle: "@creator",
	})
	if err != nil {
		t.Fatalf("create drop failed: %v", err)
	}

	drop := resp.Drop
	if drop.DropID == "" {
		t.Fatalf("expected settlement-assigned drop id")
	}
	if drop.Capacity != 2 {
		t.Fatalf("whitelist drop capacity should equal whitelist size, got %d", drop.Capacity)
	}
	if len(drop.ShortCode) != services.ShortCodeBaseLength {
		t.Fatalf("expected %d character short code, got %q", services.ShortCodeBaseLength, drop.ShortCode)
	}
	for _, c := range drop.ShortCode {
		if !strings.ContainsRune(services.ShortCodeAlphabet, c) {
			t.Fatalf("short code %q contains character outside the alphabet", drop.ShortCode)
		}
	}
	if drop.ClaimURL != baseURL+"/"+drop.ShortCode {
		t.Fatalf("unexpected claim url %q", drop.ClaimURL)
	}
	if module.Settlement.Mints != 1 {
		t.Fatalf("expected one mint, got %d", module.Settlement.Mints)
	}
}

func TestCreateDualDrop(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)

	resp, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "dual",
		AmountAVAX:    "2.5",
		AmountUSDC:    "40",
		Recipients:    8,
		CreatorWallet: creatorWallet,
	})
	if err != nil {
		t.Fatalf("create dual drop failed: %v", err)
	}
	if resp.Drop.Token != string(entities.TokenDual) {
		t.Fatalf("expected DUAL drop, got %q", resp.Drop.Token)
	}
	if resp.Drop.Capacity != 8 {
		t.Fatalf("expected capacity 8, got %d", resp.Drop.Capacity)
	}
	if module.Settlement.Mints != 1 {
		t.Fatalf("expected one mint, got %d", module.Settlement.Mints)
	}

	mint := module.Settlement.LastMint()
	if mint.Token != entities.TokenDual {
		t.Fatalf("expected the dual mint path, got token %q", mint.Token)
	}
	if !mint.AmountAVAX.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("expected avax leg 2.5, got %s", mint.AmountAVAX)
	}
	if !mint.AmountUSDC.Equal(decimal.RequireFromString("40")) {
		t.Fatalf("expected usdc leg 40, got %s", mint.AmountUSDC)
	}
	if mint.Recipients != 8 {
		t.Fatalf("expected 8 recipients at settlement, got %d", mint.Recipients)
	}
}

func TestCreateDropValidation(t *testing.T) {
	cases := []struct {
		name    string
		request httptransport.CreateDropRequest
		want    error
	}{
		{
			name:    "missing creator wallet",
			request: httptransport.CreateDropRequest{Token: "AVAX", Amount: "1", Recipients: 5},
			want:    domainerrors.ErrInvalidWallet,
		},
		{
			name:    "malformed creator wallet",
			request: httptransport.CreateDropRequest{Token: "AVAX", Amount: "1", Recipients: 5, CreatorWallet: "not-a-wallet"},
			want:    domainerrors.ErrInvalidWallet,
		},
		{
			name:    "zero amount",
			request: httptransport.CreateDropRequest{Token: "AVAX", Amount: "0", Recipients: 5, CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "no recipients and no whitelist",
			request: httptransport.CreateDropRequest{Token: "USDC", Amount: "10", CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "whitelist of blank entries",
			request: httptransport.CreateDropRequest{Token: "USDC", Amount: "10", Whitelist: []string{" ", ""}, CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "dual missing usdc amount",
			request: httptransport.CreateDropRequest{Token: "DUAL", AmountAVAX: "1", Recipients: 3, CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "dual without recipients",
			request: httptransport.CreateDropRequest{Token: "DUAL", AmountAVAX: "1", AmountUSDC: "2", CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "unknown token",
			request: httptransport.CreateDropRequest{Token: "DOGE", Amount: "1", Recipients: 5, CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
		{
			name:    "unparseable amount",
			request: httptransport.CreateDropRequest{Token: "AVAX", Amount: "one", Recipients: 5, CreatorWallet: creatorWallet},
			want:    domainerrors.ErrInvalidDropSpec,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			module := dropservice.NewInMemoryModule(nil, baseURL, nil)
			_, err := module.Handler.CreateDropHandler(context.Background(), tc.request)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if module.Settlement.Mints != 0 {
				t.Fatalf("validation failure must not reach settlement, got %d mints", module.Settlement.Mints)
			}
		})
	}
}

func TestCreateDropSettlementFailure(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)
	module.Settlement.FailNext = errors.New("rpc timeout")

	_, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    10,
		CreatorWallet: creatorWallet,
	})
	if !errors.Is(err, domainerrors.ErrSettlementFailed) {
		t.Fatalf("expected settlement failure, got %v", err)
	}

	listed, err := module.Handler.ListDropsHandler(context.Background(), creatorWallet)
	if err != nil {
		t.Fatalf("list drops failed: %v", err)
	}
	if len(listed.Items) != 0 {
		t.Fatalf("failed mint must not persist a registry row, got %d", len(listed.Items))
	}
}

func TestCreateDropRetriesTakenShortCode(t *testing.T) {
	store := memory.NewStore([]entities.Drop{
		{
			DropID:        "0x" + strings.Repeat("aa", 32),
			ShortCode:     "TAKEN",
			Token:         entities.TokenAVAX,
			Capacity:      1,
			CreatorWallet: creatorWallet,
			CreatedAt:     time.Now().UTC(),
		},
	}, nil)
	module := dropservice.NewModule(dropservice.Dependencies{
		Repository:    store,
		Settlement:    memory.NewSettlement(),
		ShortCodes:    &memory.ScriptedShortCodes{Sequence: []string{"TAKEN", "FRESH"}},
		Clock:         store,
		PublicBaseURL: baseURL,
	})

	resp, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: creatorWallet,
	})
	if err != nil {
		t.Fatalf("create drop failed: %v", err)
	}
	if resp.Drop.ShortCode != "FRESH" {
		t.Fatalf("expected retry to land on FRESH, got %q", resp.Drop.ShortCode)
	}
}

func TestCreateDropShortCodeSpaceExhausted(t *testing.T) {
	store := memory.NewStore([]entities.Drop{
		{
			DropID:        "0x" + strings.Repeat("bb", 32),
			ShortCode:     "TAKEN",
			Token:         entities.TokenAVAX,
			Capacity:      1,
			CreatorWallet: creatorWallet,
			CreatedAt:     time.Now().UTC(),
		},
	}, nil)

	// Every attempt at every widened length collides.
	collisions := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		collisions = append(collisions, "TAKEN")
	}
	module := dropservice.NewModule(dropservice.Dependencies{
		Repository:    store,
		Settlement:    memory.NewSettlement(),
		ShortCodes:    &memory.ScriptedShortCodes{Sequence: collisions},
		Clock:         store,
		PublicBaseURL: baseURL,
	})

	_, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: creatorWallet,
	})
	if !errors.Is(err, domainerrors.ErrShortCodeSpaceExhausted) {
		t.Fatalf("expected short code space exhaustion, got %v", err)
	}
}

// racingIndexStore rejects every insert as a short-code collision even
// though the pre-check saw the code as free, the way a concurrent writer
// landing between check and insert would.
type racingIndexStore struct {
	*memory.Store
	inserts int
}

func (s *racingIndexStore) CreateDrop(context.Context, entities.Drop) error {
	s.inserts++
	return domainerrors.ErrShortCodeTaken
}

func TestCreateDropPersistentIndexRaceGivesUp(t *testing.T) {
	store := &racingIndexStore{Store: memory.NewStore(nil, nil)}
	module := dropservice.NewModule(dropservice.Dependencies{
		Repository:    store,
		Settlement:    memory.NewSettlement(),
		ShortCodes:    memory.RandomShortCodes{},
		Clock:         store,
		PublicBaseURL: baseURL,
	})

	_, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: creatorWallet,
	})
	if !errors.Is(err, domainerrors.ErrShortCodeSpaceExhausted) {
		t.Fatalf("expected short code space exhaustion, got %v", err)
	}
	if store.inserts < 2 {
		t.Fatalf("expected the insert to be retried before giving up, got %d attempts", store.inserts)
	}
}

func TestResolveShortCodeIsCaseInsensitive(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)

	created, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
		Token:         "USDC",
		Amount:        "10",
		Recipients:    3,
		CreatorWallet: creatorWallet,
	})
	if err != nil {
		t.Fatalf("create drop failed: %v", err)
	}

	resolved, err := module.Handler.ResolveShortCodeHandler(context.Background(), strings.ToLower(created.Drop.ShortCode))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.DropID != created.Drop.DropID {
		t.Fatalf("expected drop %s, got %s", created.Drop.DropID, resolved.DropID)
	}
	if resolved.ClaimURL != created.Drop.ClaimURL {
		t.Fatalf("expected claim url %s, got %s", created.Drop.ClaimURL, resolved.ClaimURL)
	}

	if _, err := module.Handler.ResolveShortCodeHandler(context.Background(), "NOPE1"); !errors.Is(err, domainerrors.ErrShortCodeNotFound) {
		t.Fatalf("expected short code not found, got %v", err)
	}
}

func TestRecoverDropNeverMints(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)
	mintedDropID := "0x" + strings.Repeat("cd", 32)

	recovered, err := module.Handler.RecoverDropHandler(context.Background(), httptransport.RecoverDropRequest{
		DropID: mintedDropID,
		CreateDropRequest: httptransport.CreateDropRequest{
			Token:         "AVAX",
			Amount:        "2",
			Recipients:    4,
			CreatorWallet: creatorWallet,
		},
	})
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if recovered.Drop.DropID != mintedDropID {
		t.Fatalf("recovery must keep the minted drop id, got %s", recovered.Drop.DropID)
	}
	if module.Settlement.Mints != 0 {
		t.Fatalf("recovery must never mint, got %d mints", module.Settlement.Mints)
	}

	// A second recovery against the same drop id hits the registry primary key.
	_, err = module.Handler.RecoverDropHandler(context.Background(), httptransport.RecoverDropRequest{
		DropID: mintedDropID,
		CreateDropRequest: httptransport.CreateDropRequest{
			Token:         "AVAX",
			Amount:        "2",
			Recipients:    4,
			CreatorWallet: creatorWallet,
		},
	})
	if !errors.Is(err, domainerrors.ErrDropExists) {
		t.Fatalf("expected drop exists, got %v", err)
	}
}

func TestListDropsByCreator(t *testing.T) {
	module := dropservice.NewInMemoryModule(nil, baseURL, nil)
	other := "0x2222222222222222222222222222222222222222"

	for _, wallet := range []string{creatorWallet, creatorWallet, other} {
		_, err := module.Handler.CreateDropHandler(context.Background(), httptransport.CreateDropRequest{
			Token:         "AVAX",
			Amount:        "1",
			Recipients:    2,
			CreatorWallet: wallet,
		})
		if err != nil {
			t.Fatalf("create drop failed: %v", err)
		}
	}

	listed, err := module.Handler.ListDropsHandler(context.Background(), creatorWallet)
	if err != nil {
		t.Fatalf("list drops failed: %v", err)
	}
	if len(listed.Items) != 2 {
		t.Fatalf("expected 2 drops for creator, got %d", len(listed.Items))
	}
	for _, item := range listed.Items {
		if item.CreatorWallet != creatorWallet {
			t.Fatalf("drop %s belongs to %s", item.DropID, item.CreatorWallet)
		}
	}
}

func TestClaimProjectionIncrementsClaimsCount(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := messaging.NewBus(nil)
	store := memory.NewStore(nil, nil)
	module := dropservice.NewModule(dropservice.Dependencies{
		Repository:    store,
		Settlement:    memory.NewSettlement(),
		ShortCodes:    memory.RandomShortCodes{},
		Clock:         store,
		Subscriber:    bus,
		PublicBaseURL: baseURL,
	})

	created, err := module.Handler.CreateDropHandler(ctx, httptransport.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: creatorWallet,
	})
	if err != nil {
		t.Fatalf("create drop failed: %v", err)
	}
	if err := module.ClaimProjection.Run(ctx); err != nil {
		t.Fatalf("projection subscribe failed: %v", err)
	}

	err = bus.Publish(ctx, "distribution.claim.settled", events.Envelope{
		EventID:       "evt-1",
		EventType:     "distribution.claim.settled",
		SourceService: "claim-service",
		EntityType:    "drop",
		EntityID:      created.Drop.DropID,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		drop, err := store.GetDrop(ctx, created.Drop.DropID)
		if err != nil {
			t.Fatalf("get drop failed: %v", err)
		}
		if drop.ClaimsCount == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("claims count projection never updated, still %d", drop.ClaimsCount)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
