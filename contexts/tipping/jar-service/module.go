package jarservice

import (
	"log/slog"

	httpadapter "tipdrop/contexts/tipping/jar-service/adapters/http"
	"tipdrop/contexts/tipping/jar-service/adapters/memory"
	"tipdrop/contexts/tipping/jar-service/application/commands"
	"tipdrop/contexts/tipping/jar-service/application/queries"
	"tipdrop/contexts/tipping/jar-service/application/workers"
	"tipdrop/contexts/tipping/jar-service/ports"
)

type Module struct {
	Handler          httpadapter.Handler
	BalanceRefresher *workers.BalanceRefresher
	Store            *memory.Store
	Settlement       *memory.Settlement
}

type Dependencies struct {
	Tips       ports.TipRepository
	Wallets    ports.WalletRepository
	Balances   ports.JarBalanceRepository
	Settlement ports.Settlement
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	refresher := &workers.BalanceRefresher{
		Balances:   deps.Balances,
		Settlement: deps.Settlement,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Deposit: commands.DepositUseCase{
				Settlement: deps.Settlement,
				Balances:   deps.Balances,
				Refresher:  refresher,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			RecordTip: commands.RecordTipUseCase{
				Tips:   deps.Tips,
				Clock:  deps.Clock,
				IDs:    deps.IDs,
				Logger: deps.Logger,
			},
			UpsertWallet: commands.UpsertWalletUseCase{
				Wallets: deps.Wallets,
				Clock:   deps.Clock,
				Logger:  deps.Logger,
			},
			GetBalance: queries.GetJarBalanceUseCase{
				Balances:   deps.Balances,
				Settlement: deps.Settlement,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			TipFeed: queries.TipFeedUseCase{Tips: deps.Tips},
			Totals:  queries.UnclaimedTotalsUseCase{Tips: deps.Tips},
			Logger:  deps.Logger,
		},
		BalanceRefresher: refresher,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	settlement := memory.NewSettlement()
	module := NewModule(Dependencies{
		Tips:       store,
		Wallets:    store,
		Balances:   store,
		Settlement: settlement,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	module.Settlement = settlement
	return module
}
