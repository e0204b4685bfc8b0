package middleware

import (
	"errors"
	"log"
	"time"

	"skillbook/internal/config"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const accessLogFormat = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n"

// Setup installs the stack shared by every route
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// JSON API: no framing, photos may be embedded by the same site
	app.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "no-referrer",
		CrossOriginResourcePolicy: "same-site",
	}))

	app.Use(rateLimit(100, "", "Too many requests"))
	app.Use(logger.New(logger.Config{
		Format:     accessLogFormat,
		TimeFormat: time.DateTime,
	}))
	app.Use(cors.New(corsConfig(cfg.GetAllowedOrigins())))
}

// corsConfig allows credentials (the session and access_token cookies) only
// for an explicit origin list; browsers reject credentials with "*".
func corsConfig(origins string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: origins != "*",
	}
}

// AuthRateLimiter guards login and register: 10 requests per minute per IP
func AuthRateLimiter() fiber.Handler {
	return rateLimit(10, "-auth", "Too many login attempts")
}

func rateLimit(perMinute int, keySuffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + keySuffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, message)
		},
	})
}

// ErrorHandler renders errors that escape the handlers. Only fiber errors
// keep their message; anything else is logged and reported as a plain 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Fail(c, fe.Code, fe.Message)
	}

	log.Printf("❌ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "Internal Server Error")
}
