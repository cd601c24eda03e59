package dropservice

import (
	"log/slog"

	httpadapter "tipdrop/contexts/distribution/drop-service/adapters/http"
	"tipdrop/contexts/distribution/drop-service/adapters/memory"
	"tipdrop/contexts/distribution/drop-service/application/commands"
	"tipdrop/contexts/distribution/drop-service/application/queries"
	"tipdrop/contexts/distribution/drop-service/application/workers"
	"tipdrop/contexts/distribution/drop-service/domain/entities"
	"tipdrop/contexts/distribution/drop-service/ports"
)

type Module struct {
	Handler         httpadapter.Handler
	ClaimProjection workers.ClaimProjectionConsumer
	Store           *memory.Store
	Settlement      *memory.Settlement
}

type Dependencies struct {
	Repository    ports.Repository
	Settlement    ports.Settlement
	ShortCodes    ports.ShortCodeGenerator
	Clock         ports.Clock
	Subscriber    ports.EventSubscriber
	PublicBaseURL string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateDrop: commands.CreateDropUseCase{
				Repository:    deps.Repository,
				Settlement:    deps.Settlement,
				ShortCodes:    deps.ShortCodes,
				Clock:         deps.Clock,
				PublicBaseURL: deps.PublicBaseURL,
				Logger:        deps.Logger,
			},
			RecoverDrop: commands.RecoverDropUseCase{
				Repository:    deps.Repository,
				ShortCodes:    deps.ShortCodes,
				Clock:         deps.Clock,
				PublicBaseURL: deps.PublicBaseURL,
				Logger:        deps.Logger,
			},
			GetDrop:   queries.GetDropUseCase{Repository: deps.Repository},
			Resolve:   queries.ResolveShortCodeUseCase{Repository: deps.Repository, Logger: deps.Logger},
			ListDrops: queries.ListDropsByCreatorUseCase{Repository: deps.Repository},
			Logger:    deps.Logger,
		},
		ClaimProjection: workers.ClaimProjectionConsumer{
			Repository: deps.Repository,
			Subscriber: deps.Subscriber,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Drop, baseURL string, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	settlement := memory.NewSettlement()
	module := NewModule(Dependencies{
		Repository:    store,
		Settlement:    settlement,
		ShortCodes:    memory.RandomShortCodes{},
		Clock:         store,
		PublicBaseURL: baseURL,
		Logger:        logger,
	})
	module.Store = store
	module.Settlement = settlement
	return module
}
