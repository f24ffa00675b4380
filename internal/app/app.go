package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"splitledger/internal/auth"
	"splitledger/internal/config"
	"splitledger/internal/db"
	balancesdomain "splitledger/internal/domain/balances"
	friendsdomain "splitledger/internal/domain/friends"
	groupsdomain "splitledger/internal/domain/groups"
	ledgerdomain "splitledger/internal/domain/ledger"
	statsdomain "splitledger/internal/domain/stats"
	usersdomain "splitledger/internal/domain/users"
	"splitledger/internal/events"
	balancesrepo "splitledger/internal/repository/balances"
	friendsrepo "splitledger/internal/repository/friends"
	groupsrepo "splitledger/internal/repository/groups"
	"splitledger/internal/repository/inmemory"
	ledgerrepo "splitledger/internal/repository/ledger"
	statsrepo "splitledger/internal/repository/stats"
	usersrepo "splitledger/internal/repository/users"
	"splitledger/internal/transport/httpserver"
	"splitledger/internal/transport/httpserver/handler"
	"splitledger/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	publisher  events.Publisher
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.AMQP.Enabled {
		log.Info("app: connecting to amqp", "url", cfg.AMQP.URL)
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	memberCache := inmemory.NewGroupMemberCache()

	usersService := usersdomain.NewService(usersrepo.NewPostgres(dbConn), tokens)
	friendsService := friendsdomain.NewService(friendsrepo.NewPostgres(dbConn), usersService)
	groupsService := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), usersService, memberCache)
	ledgerService := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn), groupsService, publisher, log, cfg.DefaultCurrency)
	balancesService := balancesdomain.NewService(balancesrepo.NewPostgres(dbConn), usersService, groupsService, log)
	statsService := statsdomain.NewService(statsrepo.NewPostgres(dbConn))

	handlers := handler.New(
		usersService,
		friendsService,
		groupsService,
		ledgerService,
		balancesService,
		statsService,
		cfg.DefaultCurrency,
		log,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, tokens, registry, log)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		publisher:  publisher,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if err := a.publisher.Close(); err != nil {
		a.log.Error("amqp: close failed", "err", err)
	}

	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
