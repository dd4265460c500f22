package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/techsense/store_be/internal/cache"
	"github.com/techsense/store_be/internal/config"
	"github.com/techsense/store_be/internal/db"
	"github.com/techsense/store_be/internal/handlers"
	"github.com/techsense/store_be/internal/metrics"
	"github.com/techsense/store_be/internal/middleware"
	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/services/mail"
	"github.com/techsense/store_be/internal/services/sms"
)

func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.ProjectImage{},
		&models.BlogPost{},
		&models.ContactMessage{},
		&models.Order{},
		&models.OrderReview{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	metrics.Register()

	mailer := mail.New(cfg)
	smsSender := sms.New(cfg)
	otpStore := cache.NewOTPStore(rdb)
	cartStore := cache.NewCartStore(rdb, time.Duration(cfg.JWTExpiresMin)*time.Minute)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Static("/media", "./media")
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		BaseURL:   cfg.AppBaseURL,
		Mail:      mailer,
	}
	resetH := &handlers.PasswordResetHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		BaseURL:   cfg.AppBaseURL,
		OTP:       otpStore,
		Mail:      mailer,
		SMS:       smsSender,
	}
	projectH := &handlers.ProjectHandler{DB: gdb}
	blogH := &handlers.BlogHandler{DB: gdb}
	contactH := &handlers.ContactHandler{DB: gdb}
	orderH := &handlers.OrderHandler{DB: gdb}
	cartH := &handlers.CartHandler{DB: gdb, Cart: cartStore}
	accountH := &handlers.AccountHandler{DB: gdb}
	adminH := &handlers.AdminHandler{DB: gdb, MediaDir: "./media", BaseURL: cfg.AppBaseURL}

	api := app.Group("/api")

	// public
	api.Get("/", projectH.Home)
	api.Get("/projects", projectH.List)
	api.Get("/projects/:slug", projectH.Detail)
	api.Get("/blog", blogH.List)
	api.Get("/blog/:id", blogH.Detail)
	api.Post("/contact", contactH.Submit)

	api.Post("/auth/signup", authH.Signup)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/verify-email/:uid/:token", authH.VerifyEmail)

	// the OTP endpoints answer every verb themselves so that wrong
	// methods get the JSON method_not_allowed status, not a 404
	api.All("/password/otp/send", resetH.SendOTP)
	api.All("/password/otp/verify", resetH.VerifyOTP)
	api.Post("/password/otp/reset", resetH.ResetPassword)
	api.Post("/password-reset", resetH.RequestEmailReset)
	api.Post("/reset/:uid/:token", resetH.ConfirmEmailReset)

	// protected (JWT)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Post("/projects/:slug/buy", orderH.Buy)
	protected.Get("/my-orders", orderH.ListMine)
	protected.Get("/orders/:id", orderH.Detail)
	protected.Post("/orders/:id/cancel", orderH.Cancel)
	protected.Post("/orders/:id/review", orderH.SubmitReview)

	protected.Get("/cart", cartH.View)
	protected.Post("/cart/add/:slug", cartH.Add)
	protected.Post("/cart/remove/:id", cartH.Remove)

	protected.Get("/account/profile", accountH.GetProfile)
	protected.Put("/account/profile", accountH.UpdateProfile)
	protected.Post("/account/change-password", accountH.ChangePassword)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Post("/projects", adminH.CreateProject)
	admin.Put("/projects/:id", adminH.UpdateProject)
	admin.Post("/projects/:id/images", adminH.UploadProjectImage)
	admin.Post("/blog", adminH.CreateBlogPost)
	admin.Get("/contact-messages", adminH.ListContactMessages)
	admin.Get("/orders", adminH.ListOrders)
	admin.Patch("/orders/:id/status", adminH.UpdateOrderStatus)

	log.Info().Str("port", cfg.AppPort).Msg("starting api server")
	log.Fatal().Err(app.Listen(":" + cfg.AppPort)).Msg("server stopped")
}
