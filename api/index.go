package handler

import (
	"net/http"

	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/handler"
	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/repository/sqldb"
	"github.com/KI0T0/teste-back-end-teddy/pkg/config"
	"github.com/KI0T0/teste-back-end-teddy/pkg/core/services"
	"github.com/KI0T0/teste-back-end-teddy/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger := logging.New(cfg)

	// Serverless disks are ephemeral; DATABASE_URL should point at Turso or Postgres.
	db, err := sqldb.Open(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	links := sqldb.NewLinkRepository(db)
	generator := services.NewShortCodeGenerator(links, cfg.ShortCodeLength, cfg.AllowCustomAlias)

	mux = handler.NewRouter(cfg, handler.Services{
		Links:    services.NewLinkService(links, generator, cfg.BaseURL, cfg.ShortCodeLength, logger),
		Redirect: services.NewRedirectService(links, logger),
		Auth:     services.NewAuthService(sqldb.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL, logger),
	}, logger)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
