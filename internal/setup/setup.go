package setup

import (
	"github.com/accsvc-dev/accsvc/internal/config"
	"github.com/accsvc-dev/accsvc/internal/handler"
	"github.com/accsvc-dev/accsvc/internal/mailer"
	"github.com/accsvc-dev/accsvc/internal/middleware"
	"github.com/accsvc-dev/accsvc/internal/service"
	"github.com/accsvc-dev/accsvc/internal/storage/fs"
	"github.com/accsvc-dev/accsvc/internal/storage/pg"
	"github.com/accsvc-dev/accsvc/internal/token"
)

// Dependencies holds all initialized collaborators.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Images         *fs.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes everything the service needs, in dependency
// order: store, image store, mailer, token issuer, lifecycle service,
// handler, auth middleware.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Private.Pg)
	if err != nil {
		return nil, err
	}

	images, err := fs.New(cfg.Public.ImageDir)
	if err != nil {
		return nil, err
	}

	mail, err := mailer.New(&cfg.Private.Smtp)
	if err != nil {
		return nil, err
	}

	tokens := token.New(cfg.JwtKey(), cfg.VerifyTokenTTL(), cfg.SessionTokenTTL())

	accounts := service.NewAccounts(storage, mail, tokens, &cfg.Public)

	h := handler.New(accounts, images, storage, cfg)
	authMw := middleware.NewAuth(tokens)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Images:         images,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}
