package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/gateway"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/workerpool"
)

type HTTPMethod string

const (
	GET  HTTPMethod = "GET"
	POST HTTPMethod = "POST"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	echo  *echo.Echo
	port  string
	stack *stack.Stack
}

type Config struct {
	Port               string
	CORSAllowedOrigins []string
	Log                bool
	MaxUploadBytes     int64

	Extraction stack.Config
}

type HealthCheck struct {
	Pool     workerpool.Stats `json:"pool"`
	InFlight int              `json:"in_flight"`
}

func NewApp(config Config) App {
	// a linked file is held to the same limit as an uploaded one
	if config.Extraction.MaxDownloadBytes == 0 {
		config.Extraction.MaxDownloadBytes = config.MaxUploadBytes
	}

	e := echo.New()
	e.HideBanner = true

	if config.Log {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	corsMiddleware := makeCorsMiddleware(config)
	bodyLimitMiddleware := middleware.BodyLimit(fmt.Sprintf("%dB", config.MaxUploadBytes))

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		e.OPTIONS(path, handlerFunc, corsMiddleware)

		switch method {
		case GET:
			e.GET(path, handlerFunc, corsMiddleware)
		case POST:
			e.POST(path, handlerFunc, corsMiddleware, bodyLimitMiddleware)
		default:
			panic("unhandled http method!")
		}
	}

	extractionStack := must(stack.New(config.Extraction))
	extractionGateway := extractiongateway.NewGateway(extractionStack.Service)

	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthCheck{
			Pool:     extractionStack.Pool.Stats(),
			InFlight: extractionStack.Manager.InFlight(),
		})
	})

	handleRoute(POST, "/extract-instrumental/", extractionGateway.ExtractInstrumental)
	handleRoute(POST, "/extract-from-youtube/", extractionGateway.ExtractFromYoutube)

	return App{
		echo:  e,
		port:  config.Port,
		stack: extractionStack,
	}
}

// Start clears out anything a previous process left behind before serving
func (a *App) Start() error {
	result := a.stack.Manager.Sweep()
	log.WithField("removed", len(result.Removed)).
		WithField("skipped", len(result.Skipped)).
		Info("Swept working dir on startup")

	err := a.echo.Start(a.port)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

// Stop waits for in flight requests until ctx ends, then releases everything on disk
func (a *App) Stop(ctx context.Context) error {
	var err error
	if shutdownErr := a.echo.Shutdown(ctx); shutdownErr != nil {
		err = errors.Wrap(shutdownErr, "Failed to stop echo server")
	}

	if closeErr := a.stack.Close(); closeErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(closeErr, "Failed to close extraction stack"))
	}

	return err
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  config.CORSAllowedOrigins,
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: extractiongateway.ExposedHeaders,
	})
}
