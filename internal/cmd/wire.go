package cmd

import (
	"fmt"

	"atelier/internal/auth"
	"atelier/internal/authz"
	"atelier/internal/config"
	"atelier/internal/domain/event"
	"atelier/internal/domain/orderno"
	"atelier/internal/domain/pricing"
	"atelier/internal/handler"
	"atelier/internal/infra/db"
	"atelier/internal/infra/events"
	infraRepo "atelier/internal/infra/repository"
	"atelier/internal/logger"
	"atelier/internal/realtime"
	"atelier/internal/server"
	"atelier/internal/usecase"
	"atelier/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 設定・ロガー・DBはどのサブコマンドでも使う
func bootstrap() (config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.GoEnv, cfg.LogLevel)

	gdb, err := db.Connect(cfg)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, log, gdb, nil
}

type app struct {
	echo  *echo.Echo
	hub   *realtime.Hub
	close func() error
}

// buildApp はrepository → usecase → handler → echo を組み立てる。
func buildApp(cfg config.Config, log *logrus.Logger, gdb *gorm.DB) (*app, error) {
	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(gdb)
	addressRepo := infraRepo.NewAddressGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	cartRepo := infraRepo.NewCartGormRepository(gdb)
	fabricRepo := infraRepo.NewFabricGormRepository(gdb)
	modelRepo := infraRepo.NewDesignModelGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	//イベントはKafkaとライブフィードの両方へ
	kafka, closeKafka, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	hub := realtime.NewHub(cfg.FEURL, log)
	publisher := event.Fanout{kafka, hub}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AuthTokenTTL)
	enforcer, err := authz.New()
	if err != nil {
		_ = closeKafka()
		return nil, fmt.Errorf("failed to build enforcer: %w", err)
	}

	clock := usecase.SystemClock{}
	rules := pricing.Rules{
		TaxRate:               cfg.TaxRate,
		ShippingFee:           cfg.ShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
	}

	//Usecase
	authUC := usecase.NewAuthUsecase(userRepo, tokens, validator.NewAuthValidator(userRepo), clock)
	productUC := usecase.NewProductUsecase(productRepo, txm)
	catalogUC := usecase.NewCatalogUsecase(fabricRepo, modelRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	orderUC := usecase.NewOrderUsecase(txm, rules, orderno.NewGenerator(), clock, publisher, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, clock, publisher, log, cfg.AdminAllowedDemoEmail)

	//Handler
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg.CookieSecure),
		Product:      handler.NewProductHandler(productUC, catalogUC),
		Order:        handler.NewOrderHandler(orderUC),
		Cart:         handler.NewCartHandler(cartUC),
		Address:      handler.NewAddressHandler(addressUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, catalogUC),
		AdminUser:    handler.NewAdminUserHandler(authUC),
		Hub:          hub,
	}
	g := server.Guards{Tokens: tokens, Users: userRepo, Authz: enforcer, Log: log}

	return &app{
		echo:  server.New(cfg.FEURL, h, g),
		hub:   hub,
		close: closeKafka,
	}, nil
}
