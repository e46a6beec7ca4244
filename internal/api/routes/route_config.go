package routes

import (
	"MenuLens/internal/api/handlers"
	"MenuLens/internal/middleware"
	"MenuLens/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	ScanHandler    handlers.ScanHandler
	MenuHandler    handlers.MenuHandler
	BillingHandler handlers.BillingHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Scans()
	c.Menus()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.BillingHandler.CreateSubscription)
	}
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))

	scans.Post("", c.ScanHandler.ScanMenu)
	scans.Get("", c.ScanHandler.GetScanHistory)
	scans.Get("/:id", c.ScanHandler.GetScanDetail)
}

func (c *Config) Menus() {
	menus := c.App.Group("/api/v1/menus", c.Middleware.AuthMiddleware(c.JWTService))

	menus.Get("/:id", c.MenuHandler.GetCanonicalMenu)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.BillingHandler.MidtransWebhookHandler)
}
