package utils

import (
	"time"

	"github.com/labstack/echo"
	"github.com/rs/zerolog"
)

// ZeroLogger logs one line per request. Health checks are only logged at
// trace level so they don't drown the page requests.
func ZeroLogger(log *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			level := levelForStatus(res.Status)
			if c.Path() == "/_ping" && level == zerolog.DebugLevel {
				level = zerolog.TraceLevel
			}

			log.WithLevel(level).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("id", id).
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Int64("bytes_out", res.Size).
				Msg("request")

			return nil
		}
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	case status >= 300:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
