package middleware

import (
	"time"

	"github.com/annel0/fuelcell/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDKey ключ trace-ID в gin.Context
const TraceIDKey = "trace_id"

// TraceHeader заголовок ответа с trace-ID
const TraceHeader = "X-Trace-Id"

// RequestLogger снабжает запрос trace-ID и пишет строку лога по завершении.
// Запросы к quiet-путям (опрос здоровья, сбор метрик) пишутся на DEBUG.
type RequestLogger struct {
	quiet map[string]struct{}
}

// NewRequestLogger создаёт middleware логирования
func NewRequestLogger(quietPaths ...string) *RequestLogger {
	rl := &RequestLogger{quiet: make(map[string]struct{}, len(quietPaths))}
	for _, p := range quietPaths {
		rl.quiet[p] = struct{}{}
	}
	return rl
}

// Handler возвращает gin.HandlerFunc для router.Use()
func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := requestTraceID(c)
		c.Set(TraceIDKey, traceID)
		c.Header(TraceHeader, traceID)

		start := time.Now()
		c.Next()

		route := routeOf(c)
		status := c.Writer.Status()
		latency := time.Since(start)

		switch {
		case status >= 500:
			logging.Error("[HTTP] %s %s %d %s trace=%s", c.Request.Method, route, status, latency, traceID)
		case status >= 400:
			logging.Warn("[HTTP] %s %s %d %s trace=%s", c.Request.Method, route, status, latency, traceID)
		case rl.isQuiet(route):
			logging.Debug("[HTTP] %s %s %d %s", c.Request.Method, route, status, latency)
		default:
			logging.Info("[HTTP] %s %s %d %s ip=%s trace=%s", c.Request.Method, route, status, latency, c.ClientIP(), traceID)
		}
	}
}

func (rl *RequestLogger) isQuiet(route string) bool {
	_, ok := rl.quiet[route]
	return ok
}

// requestTraceID берёт trace-ID из span'а otelgin, иначе генерирует UUID
func requestTraceID(c *gin.Context) string {
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}

// routeOf шаблон маршрута gin либо "unmatched"
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
