package claimservice

import (
	"log/slog"

	httpadapter "tipdrop/contexts/distribution/claim-service/adapters/http"
	"tipdrop/contexts/distribution/claim-service/adapters/memory"
	"tipdrop/contexts/distribution/claim-service/application/commands"
	"tipdrop/contexts/distribution/claim-service/application/queries"
	"tipdrop/contexts/distribution/claim-service/application/workers"
	"tipdrop/contexts/distribution/claim-service/ports"
	"tipdrop/internal/shared/retry"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
	Settlement  *memory.Settlement
}

type Dependencies struct {
	Claims     ports.ClaimRepository
	Drops      ports.DropDirectory
	Settlement ports.Settlement
	Outbox     ports.OutboxRepository
	Publisher  ports.EventPublisher
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Retry      retry.Config
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	eligibility := queries.CheckEligibilityUseCase{
		Drops:  deps.Drops,
		Claims: deps.Claims,
		Retry:  deps.Retry,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			AttemptClaim: commands.AttemptClaimUseCase{
				Eligibility: eligibility,
				Claims:      deps.Claims,
				Settlement:  deps.Settlement,
				Clock:       deps.Clock,
				IDs:         deps.IDs,
				Logger:      deps.Logger,
			},
			CheckEligibility: eligibility,
			ListByDrop:       queries.ListClaimsByDropUseCase{Claims: deps.Claims},
			ListByWallet:     queries.ListClaimsByWalletUseCase{Claims: deps.Claims},
			Logger:           deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	settlement := memory.NewSettlement()
	module := NewModule(Dependencies{
		Claims:     store,
		Drops:      store,
		Settlement: settlement,
		Outbox:     store,
		Publisher:  publisher,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	module.Settlement = settlement
	return module
}
