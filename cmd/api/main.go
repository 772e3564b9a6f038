package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"pvt_hostel/internal/adapters/gateway"
	server "pvt_hostel/internal/adapters/http_server"
	"pvt_hostel/internal/adapters/notify"
	"pvt_hostel/internal/adapters/observability"
	redisad "pvt_hostel/internal/adapters/redis"
	"pvt_hostel/internal/app"
	"pvt_hostel/internal/domain"
	"pvt_hostel/internal/shared"
	memstore "pvt_hostel/internal/storage/memory"
	mysqlrepo "pvt_hostel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// booking store: MySQL when a DSN is configured, in-memory otherwise
	var repo domain.BookingRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	} else {
		log.Info().Msg("using in-memory booking store")
		repo = memstore.NewRepo()
	}

	catalog := memstore.NewCatalog(memstore.SeedRooms())
	occupancy := memstore.NewOccupancy(cfg.OccupancySeed)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	availability := app.NewAvailabilityService(catalog, occupancy, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(
		repo,
		availability,
		gateway.NewSimulated(cfg.GatewayLatency, cfg.GatewayRPS),
		notify.NewLogNotifier(log.Logger),
		log.Logger,
		cfg.Currency,
	)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Availability: availability, Bookings: bookings})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
