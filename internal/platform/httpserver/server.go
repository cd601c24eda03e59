package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	claimservice "tipdrop/contexts/distribution/claim-service"
	dropservice "tipdrop/contexts/distribution/drop-service"
	jarservice "tipdrop/contexts/tipping/jar-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tipdrop/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	drops  dropservice.Module
	claims claimservice.Module
	jar    jarservice.Module
}

func New(
	drops dropservice.Module,
	claims claimservice.Module,
	jar jarservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		drops:  drops,
		claims: claims,
		jar:    jar,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /r/{short_code}", s.handleResolveShortCode)
	s.mux.HandleFunc("POST /v1/drops", s.handleCreateDrop)
	s.mux.HandleFunc("GET /v1/drops", s.handleListDrops)
	s.mux.HandleFunc("POST /v1/drops/recover", s.handleRecoverDrop)
	s.mux.HandleFunc("GET /v1/drops/{drop_id}", s.handleGetDrop)

	s.mux.HandleFunc("GET /v1/drops/{drop_id}/eligibility", s.handleCheckEligibility)
	s.mux.HandleFunc("POST /v1/drops/{drop_id}/claims", s.handleAttemptClaim)
	s.mux.HandleFunc("GET /v1/drops/{drop_id}/claims", s.handleListClaims)
	s.mux.HandleFunc("GET /v1/wallets/{wallet}/claims", s.handleListWalletClaims)

	s.mux.HandleFunc("POST /v1/jar/deposits", s.handleJarDeposit)
	s.mux.HandleFunc("GET /v1/jar/{wallet}/balance", s.handleJarBalance)
	s.mux.HandleFunc("POST /v1/tips", s.handleRecordTip)
	s.mux.HandleFunc("GET /v1/tips", s.handleTipFeed)
	s.mux.HandleFunc("GET /v1/tips/totals", s.handleUnclaimedTotals)
	s.mux.HandleFunc("POST /v1/wallets", s.handleUpsertWallet)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
