package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"github.com/ferhatk/fizikcozum/handler"
	"github.com/ferhatk/fizikcozum/router"
	"github.com/ferhatk/fizikcozum/solver"
	"github.com/ferhatk/fizikcozum/store/jsondb"
	"github.com/ferhatk/fizikcozum/util"
)

var (
	// command-line banner information
	appVersion = "development"
	gitCommit  = "N/A"
	gitRef     = "N/A"
	buildTime  = fmt.Sprintf(time.Now().UTC().Format("01-02-2006 15:04:05"))
	// configuration variables
	flagBindAddress  string = util.DefaultBindAddress
	flagJwtSecret    string
	flagDataFilePath string = util.DefaultDataFilePath
	flagGeminiApiKey string
	flagGeminiModel  string = util.DefaultGeminiModel
	flagBcryptCost   int    = util.DefaultBcryptCost
)

func init() {
	// load a local .env file if present so env lookups pick values from it
	_ = godotenv.Load()

	// command-line flags and env variables
	flag.StringVar(&flagBindAddress, "bind-address", util.LookupEnvOrString(util.BindAddressEnvVar, flagBindAddress), "Address:Port to which the app will be bound.")
	flag.StringVar(&flagJwtSecret, "jwt-secret", util.LookupEnvOrString(util.JwtSecretEnvVar, flagJwtSecret), "The key used to sign identity tokens.")
	flag.StringVar(&flagDataFilePath, "data-file-path", util.LookupEnvOrString(util.DataFilePathEnvVar, flagDataFilePath), "Path of the user database file.")
	flag.StringVar(&flagGeminiApiKey, "gemini-api-key", util.LookupEnvOrString(util.GeminiApiKeyEnvVar, flagGeminiApiKey), "Your Gemini api key.")
	flag.StringVar(&flagGeminiModel, "gemini-model", util.LookupEnvOrString(util.GeminiModelEnvVar, flagGeminiModel), "Gemini model used to solve problems.")
	flag.IntVar(&flagBcryptCost, "bcrypt-cost", util.LookupEnvOrInt(util.BcryptCostEnvVar, flagBcryptCost), "Work factor of the password hash.")
	flag.Parse()

	if flagJwtSecret == "" {
		flagJwtSecret = util.DefaultJwtSecret
		log.Warn("JWT_SECRET is not set, using the insecure development default")
	}

	// update runtime config
	util.BindAddress = flagBindAddress
	util.JwtSecret = []byte(flagJwtSecret)
	util.DataFilePath = flagDataFilePath
	util.GeminiApiKey = flagGeminiApiKey
	util.GeminiModel = flagGeminiModel
	util.BcryptCost = flagBcryptCost

	// print app information
	fmt.Println("Fizik Cozum Platformu")
	fmt.Println("App Version\t:", appVersion)
	fmt.Println("Git Commit\t:", gitCommit)
	fmt.Println("Git Ref\t\t:", gitRef)
	fmt.Println("Build Time\t:", buildTime)
	fmt.Println("Bind address\t:", util.BindAddress)
	fmt.Println("Data file\t:", util.DataFilePath)
	fmt.Println("Gemini model\t:", util.GeminiModel)
}

func main() {
	// initialize the user store: load from disk, then ensure the bootstrap
	// admin exists, before any request is served
	db := jsondb.New(util.DataFilePath)
	if err := db.Init(); err != nil {
		log.Fatal("Cannot init user store: ", err)
	}

	gemini := solver.NewGeminiAPI(util.GeminiApiKey, util.GeminiModel)

	// whole-API quota: 100 requests per 15 minutes per client address
	apiLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(100.0 / (15 * 60)),
			Burst:     100,
			ExpiresIn: 15 * time.Minute,
		}),
	})

	// solve quota: 10 questions per minute per authenticated user
	solveLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(10.0 / 60),
			Burst:     10,
			ExpiresIn: time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if claims := handler.CurrentUser(c); claims != nil {
				return claims.ID, nil
			}
			return c.RealIP(), nil
		},
	})

	// register routes
	app := router.New()

	api := app.Group("/api", apiLimiter)
	api.POST("/auth/register", handler.Register(db), handler.ContentTypeJson)
	api.POST("/auth/login", handler.Login(db, util.JwtSecret), handler.ContentTypeJson)
	api.POST("/solve", handler.SolveProblem(gemini), handler.ContentTypeJson, handler.ValidToken(util.JwtSecret), solveLimiter)

	admin := api.Group("/admin", handler.ValidToken(util.JwtSecret), handler.AdminOnly)
	admin.GET("/users", handler.GetUsers(db))
	admin.PATCH("/users/:id", handler.UpdateUser(db), handler.ContentTypeJson)
	admin.DELETE("/users/:id", handler.RemoveUser(db))

	app.Logger.Fatal(app.Start(util.BindAddress))
}
