package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/xemah/battleweb/config"
	"github.com/xemah/battleweb/internal/app"
	"github.com/xemah/battleweb/internal/panel"
	"github.com/xemah/battleweb/internal/routes"
	"github.com/xemah/battleweb/internal/services"
	"github.com/xemah/battleweb/internal/store"
	"github.com/xemah/battleweb/pkg/cookie"
	"github.com/xemah/battleweb/pkg/db"
	"github.com/xemah/battleweb/pkg/logger"
	"github.com/xemah/battleweb/pkg/redis"
	"github.com/xemah/battleweb/pkg/view"
)

//go:embed views/*.html
var viewFS embed.FS

//go:embed public
var publicFS embed.FS

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(ctx, pool, store.Migrations, log); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	rdb, err := redis.Open(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	views, err := view.New(viewFS, "views/*.html")
	if err != nil {
		log.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	public, err := fs.Sub(publicFS, "public")
	if err != nil {
		log.Error("failed to mount public assets", "error", err)
		os.Exit(1)
	}

	cookies := cookie.New(
		cookie.WithSecret(cfg.CookieSecret),
		cookie.WithSecure(cfg.IsProduction()),
	)

	users := store.NewPostgresUsers(pool)
	settings := store.NewCachedSettings(rdb, store.NewPostgresSettings(pool), log)
	notifications := store.NewPostgresNotifications(pool)

	panelModule := panel.New(settings, users, notifications)

	a := app.New(
		app.WithLogger(log),
		app.WithCookies(cookies),
		app.WithViews(views),
		app.WithStores(users, settings, notifications),
		app.WithStaticFiles("/public", public),
		app.WithPanel(panel.Prefix, panelModule.Gate),
		app.WithRoutes(
			routes.NewHome(),
			routes.NewAuth(users),
			routes.NewNotifications(notifications),
			panelModule,
		),
		app.WithServices(
			services.NewCleanup(notifications),
		),
		app.WithHealth(
			app.WithReadinessCheck("postgres", db.Healthcheck(pool)),
			app.WithReadinessCheck("redis", redis.Healthcheck(rdb)),
		),
	)

	err = a.Run(cfg.Addr(),
		app.ShutdownHook(db.Shutdown(pool)),
		app.ShutdownHook(redis.Shutdown(rdb)),
	)
	if err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}
