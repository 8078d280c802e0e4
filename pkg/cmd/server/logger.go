package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

// logger returns a middleware that writes one entry per request to l.
// Server errors are logged at error level and client errors at warn level.
func logger(l log.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := l.WithFields(requestFields(c, time.Since(start), err))
			res := c.Response()
			msg := c.Request().Method + " " + c.Request().RequestURI + " " + strconv.Itoa(res.Status)

			switch {
			case res.Status >= http.StatusInternalServerError:
				entry.Error(msg)
			case res.Status >= http.StatusBadRequest:
				entry.Warn(msg)
			default:
				entry.Info(msg)
			}
			return err
		}
	}
}

func requestFields(c echo.Context, latency time.Duration, err error) log.Fields {
	req := c.Request()
	res := c.Response()

	id := req.Header.Get(echo.HeaderXRequestID)
	if id == "" {
		id = res.Header().Get(echo.HeaderXRequestID)
	}

	fields := log.Fields{
		"remote_ip": c.RealIP(),
		"method":    req.Method,
		"uri":       req.RequestURI,
		"status":    res.Status,
		"bytes_out": res.Size,
		"latency":   latency.String(),
	}
	if id != "" {
		fields["id"] = id
	}
	if ua := req.UserAgent(); ua != "" {
		fields["user_agent"] = ua
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
