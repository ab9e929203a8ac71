package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/config"
	"jewel-erp/internal/handler"
	"jewel-erp/internal/metrics"
	"jewel-erp/internal/middleware"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
	"jewel-erp/internal/service"
	"jewel-erp/internal/ws"
	"jewel-erp/pkg/database"
	"jewel-erp/pkg/jwt"
	"jewel-erp/pkg/logger"
	"jewel-erp/pkg/storage"
)

func main() {
	// 1. Config and logging
	cfg, dotenv, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logger.Setup(logger.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	if !dotenv {
		log.Warn().Msg(".env file not found, using process environment")
	}
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Database
	db, err := database.Connect(database.Options{
		DSN:             cfg.DSN(),
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("auto-migration failed")
	}

	ctx := context.Background()
	if err := seedAccess(ctx, db, cfg); err != nil {
		log.Warn().Err(err).Msg("seeding roles and admin failed")
	}

	// 3. WebSocket hub and metrics
	wsHub := ws.NewHub()
	go wsHub.Run()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	var objects storage.ObjectStore
	if cfg.StorageEnabled() {
		objects, err = storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
	} else {
		log.Warn().Msg("MinIO not configured, QR code uploads are disabled")
	}

	// 4. Dependency injection
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	vendorRepo := repository.NewCrudRepo[model.Vendor](db)
	productRepo := repository.NewCrudRepo[model.ProductCatalog](db, "Vendor")
	companyRepo := repository.NewCrudRepo[model.CompanyDetails](db)
	bankRepo := repository.NewCrudRepo[model.BankDetails](db)

	sequencer := billing.NewSequencer(cfg.InvoicePrefix, time.Now)
	saleService := service.NewSaleService(store, sequencer, companyRepo, bankRepo, wsHub, m)
	returnService := service.NewReturnService(store, productRepo, wsHub)
	customerService := service.NewCustomerService(store.Customers())
	dashService := service.NewDashboardService(repository.NewDashboardRepo(db))
	authService := service.NewAuthService(userRepo, tokens, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	// 5. Fiber
	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: 8 << 20,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handler.Register(app, handler.Routes{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService),
		Roles:       handler.NewRoleHandler(userService),
		Dashboard:   handler.NewDashboardHandler(dashService),
		Sales:       handler.NewSaleHandler(saleService),
		Returns:     handler.NewReturnHandler(returnService),
		Customers:   handler.NewCustomerHandler(customerService),
		Vendors:     handler.NewCrudHandler[model.Vendor](service.NewVendorService(vendorRepo), "Vendor"),
		Products:    handler.NewCrudHandler[model.ProductCatalog](service.NewProductService(productRepo), "Product"),
		Company:     handler.NewCrudHandler[model.CompanyDetails](service.NewCompanyService(companyRepo), "Company details"),
		Banks:       handler.NewBankHandler(service.NewBankService(bankRepo, objects)),
		RequireAuth: middleware.RequireAuth(tokens, userRepo),
		Metrics:     adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		Hub:         wsHub,
	})

	// 6. Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
		if err := app.Listen(":" + strings.TrimPrefix(cfg.Port, ":")); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{},
		&model.Customer{}, &model.Vendor{}, &model.ProductCatalog{},
		&model.SalesInvoice{}, &model.SalesItem{}, &model.PaymentTransaction{},
		&model.SalesReturn{}, &model.SalesExchange{}, &model.SaleAuditLog{},
		&model.BankDetails{}, &model.CompanyDetails{},
	)
}

// seedAccess creates the default privileges and roles, grants roles
// without privileges their default set, and creates the admin account.
func seedAccess(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return err
	}
	all, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, def := range model.DefaultRoles {
		role, err := roleRepo.FindByCode(ctx, def.Code)
		if err != nil {
			return err
		}
		if len(role.Privileges) > 0 {
			continue
		}
		if err := roleRepo.AssignPrivileges(ctx, role, model.PrivilegesFor(role.Code, all)); err != nil {
			return err
		}
		log.Info().Str("role", role.Code).Msg("role assigned default privileges")
	}

	if _, err := userRepo.FindByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		return nil
	} else if !repository.IsNotFound(err) {
		return err
	}

	master, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:      cfg.SeedAdminEmail,
		FullName:   "Master Administrator",
		RoleID:     &master.ID,
		IsActive:   true,
		Privileges: master.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("email", admin.Email).Msg("admin user created (MASTER_ADMIN)")
	return nil
}
