package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"codship/cmd"
	codshiphttp "codship/internal/adapters/in/http"
	"codship/internal/adapters/out/postgres/allocationrepo"
	"codship/internal/adapters/out/postgres/notificationrepo"
	"codship/internal/adapters/out/postgres/orderrepo"
	"codship/internal/adapters/out/postgres/partnerrepo"
	"codship/internal/adapters/out/postgres/trackingrepo"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db := openDatabase(configs)
	migrateSchema(db)

	app := cmd.NewCompositionRoot(configs, db, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	costCap, err := strconv.ParseFloat(goDotEnvVariable("COST_REFERENCE_CAP"), 64)
	if err != nil {
		costCap = 0
	}

	return cmd.Config{
		HTTPPort:         goDotEnvVariable("HTTP_PORT"),
		DBHost:           goDotEnvVariable("DB_HOST"),
		DBPort:           goDotEnvVariable("DB_PORT"),
		DBUser:           goDotEnvVariable("DB_USER"),
		DBPassword:       goDotEnvVariable("DB_PASSWORD"),
		DBName:           goDotEnvVariable("DB_NAME"),
		DBSslMode:        goDotEnvVariable("DB_SSLMODE"),
		CostReferenceCap: costCap,
		GatewayURL:       goDotEnvVariable("NOTIFY_GATEWAY_URL"),
		GatewayAPIKey:    goDotEnvVariable("NOTIFY_GATEWAY_API_KEY"),
		GatewayTimeout:   goDotEnvVariable("NOTIFY_GATEWAY_TIMEOUT"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError turns the pending partial-index violation into
	// gorm.ErrDuplicatedKey, which the allocation repository relies on.
	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func migrateSchema(db *gorm.DB) {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&partnerrepo.PartnerDTO{},
		&allocationrepo.RecordDTO{},
		&allocationrepo.FallbackDTO{},
		&trackingrepo.EntryDTO{},
		&notificationrepo.IntentDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := codshiphttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAllocatePartnerCommandHandler(),
		app.CreateUpdateStageCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateFallbackCommandHandler(),
		app.CreateGetTrackingStatusQueryHandler(),
		app.CreateGenerateReportQueryHandler(),
		app.CreateGetOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
