package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// PageGateConfig описывает, какие пути страниц открыты без входа.
type PageGateConfig struct {
	CookieName string
	// Префиксы, которые гейт не трогает (API и статика).
	SkipPrefixes []string
	PublicPaths  []string
}

// PageGate проверяет только наличие cookie сессии: без неё любая закрытая
// страница уводит на /login, а с ней /login уводит на главную.
// Подлинность сессии проверяет AuthMiddleware на API.
func PageGate(cfg PageGateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range cfg.SkipPrefixes {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			hasToken := false
			if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				hasToken = true
			}

			if path == LoginPath {
				if hasToken {
					return c.Redirect(http.StatusFound, HomePath)
				}
				return next(c)
			}

			for _, p := range cfg.PublicPaths {
				if path == p {
					return next(c)
				}
			}

			if !hasToken {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return next(c)
		}
	}
}
