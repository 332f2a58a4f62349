// Package app contains the web front-end and JSON API.
package app

import (
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/todo/internal/app/component"
	"github.com/stolasapp/todo/internal/config"
	"github.com/stolasapp/todo/internal/sec"
)

//go:embed static
var staticFiles embed.FS

// New creates the web server. The JSON API under /todo requires a bearer
// token; the pages under /todos require the session cookie.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	} else {
		srv.Use(middleware.Recover())
	}

	srv.Use(
		middleware.Decompress(),
		middleware.Gzip(),
		middleware.Secure(),
		middleware.BodyLimit("64K"),
		middleware.RequestID(),
	)

	cookie := sec.SessionCookie{Name: cfg.Auth.CookieName}
	h := handler{
		logger: logger,
		auth:   deps.Auth,
		users:  deps.Users,
		todos:  deps.Todos,
		cookie: cookie,
	}
	h.register(srv, routeGuards{
		csrf: middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + component.FieldCSRF,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}),
		bearer: echo.WrapMiddleware(sec.NewBearerMiddleware(deps.Guard).Wrap),
		cookie: echo.WrapMiddleware(deps.Guard.CookieMiddleware(cookie, component.PathLogin)),
	})

	staticFS := echo.MustSubFS(staticFiles, "static")
	srv.StaticFS("/static/", staticFS)
	srv.FileFS("/robots.txt", "robots.txt", staticFS)
	return srv
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if id, ok := sec.GetIdentity(req.Context()); ok {
				attrs = append(attrs, slog.String("owner", id.Owner()))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
