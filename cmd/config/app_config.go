package config

import (
	"MenuLens/internal/api/handlers"
	"MenuLens/internal/api/routes"
	"MenuLens/internal/middleware"
	"MenuLens/internal/utils"
	"MenuLens/internal/utils/storage"
	"MenuLens/pkg/billing"
	"MenuLens/pkg/extraction"
	"MenuLens/pkg/jwt"
	"MenuLens/pkg/scan"
	"MenuLens/pkg/structurer"
	"MenuLens/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         20 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Extraction cascade: ordering encodes the operator's quality/cost
	// preference. First acceptable result wins.
	providers := buildExtractionProviders()
	cascade := extraction.NewCascade(providers)
	menuStructurer := structurer.New(structurer.NewGeminiClient(
		utils.GetConfig("GEMINI_API_KEY"),
		utils.GetConfig("GEMINI_MODEL"),
	))

	// Repository
	userRepository := user.NewUserRepository(db)
	scanRepository := scan.NewScanRepository(db)
	billingRepository := billing.NewBillingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	scanService := scan.NewScanService(scanRepository, cascade, menuStructurer, s3)
	billingService := billing.NewBillingService(billingRepository, userRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	menuHandler := handlers.NewMenuHandler(scanService)
	billingHandler := handlers.NewBillingHandler(billingService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		ScanHandler:    scanHandler,
		MenuHandler:    menuHandler,
		BillingHandler: billingHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func buildExtractionProviders() []extraction.Provider {
	var providers []extraction.Provider

	openAIKey := utils.GetConfig("OPENAI_API_KEY")
	if openAIKey != "" {
		if model := utils.GetConfig("OPENAI_MODEL"); model != "" {
			providers = append(providers, extraction.NewOpenAIProvider("openai-"+model, openAIKey, model))
		}
		if fallback := utils.GetConfig("OPENAI_FALLBACK_MODEL"); fallback != "" {
			providers = append(providers, extraction.NewOpenAIProvider("openai-"+fallback, openAIKey, fallback))
		}
	}

	geminiKey := utils.GetConfig("GEMINI_API_KEY")
	if geminiKey != "" && utils.GetConfig("GEMINI_MODEL") != "" {
		providers = append(providers, extraction.NewGeminiProvider(geminiKey, utils.GetConfig("GEMINI_MODEL")))
	}

	return providers
}
