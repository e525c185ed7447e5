package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dinemate/cmd"
	"dinemate/internal/adapters/out/postgres/menurepo"
	"dinemate/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// defaultMenu seeds the catalog on first start; an already populated menu
// table is left untouched.
var defaultMenu = map[string]float64{
	"cheese burger":            5.99,
	"chicken burger":           6.99,
	"veggie burger":            5.49,
	"pepperoni pizza":          12.99,
	"margherita pizza":         11.49,
	"bbq chicken pizza":        13.99,
	"grilled chicken sandwich": 7.99,
	"club sandwich":            6.99,
	"spaghetti carbonara":      9.99,
	"fettuccine alfredo":       10.49,
	"tandoori chicken":         11.99,
	"butter chicken":           12.49,
	"beef steak":               15.99,
	"chicken biryani":          8.99,
	"mutton biryani":           10.99,
	"prawn curry":              13.49,
	"fish and chips":           9.49,
	"french fries":             3.99,
	"garlic bread":             4.49,
	"chocolate brownie":        5.49,
	"vanilla ice cream":        3.99,
	"strawberry shake":         4.99,
	"mango smoothie":           5.49,
	"coca-cola":                2.49,
	"pepsi":                    2.49,
	"fresh orange juice":       4.99,
}

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = migrateAndSeed(gormDB); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  envOrDefault("OPENAI_MODEL", "gpt-4o"),

		ModificationWindow:  time.Duration(envIntOrDefault("MODIFICATION_WINDOW_MINUTES", 10)) * time.Minute,
		PrepTime:            time.Duration(envIntOrDefault("PREP_TIME_MINUTES", 40)) * time.Minute,
		SummarizeThreshold:  envIntOrDefault("SUMMARIZE_THRESHOLD", 12),
		SummarizeKeepRecent: envIntOrDefault("SUMMARIZE_KEEP_RECENT", 4),
		SessionMaxIdle:      time.Duration(envIntOrDefault("SESSION_IDLE_MINUTES", 30)) * time.Minute,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return n
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrateAndSeed(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &menurepo.MenuItemDTO{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	menuRepo := menurepo.NewGormMenuRepository(gormDB)
	if err := menuRepo.Seed(context.Background(), defaultMenu); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}

	return nil
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := app.CreateHTTPServer(app.CreateOrchestrator())
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Web server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Web server shutdown failed: %v", err)
	}
}
