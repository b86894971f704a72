package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/metrics"
	"github.com/annel0/fuelcell/internal/middleware"
	"github.com/annel0/fuelcell/internal/score"
	"github.com/annel0/fuelcell/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// SessionView то, что API читает из игровой сессии
type SessionView interface {
	Snapshot() session.Snapshot
	Leaderboard() []score.Entry
}

// Registry реестр метрик: регистрация и сбор
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// RestServer представляет REST API сервер только для чтения
type RestServer struct {
	router     *gin.Engine
	session    SessionView
	port       int
	startTime  time.Time
	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     int         // порт для запуска сервера
	Session  SessionView // читаемая сессия
	Registry Registry    // nil — новый пустой реестр
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Port == 0 {
		config.Port = 8088
	}
	if config.Session == nil {
		return nil, errors.New("rest server: nil session")
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger("/health", "/metrics")
	router.Use(loggerMw.Handler())

	router.Use(otelgin.Middleware("fuelcell_api"))

	promMw, err := middleware.NewPrometheusMiddleware("rest_api", config.Registry)
	if err != nil {
		return nil, fmt.Errorf("rest server metrics: %w", err)
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Registry)

	server := &RestServer{
		router:    router,
		session:   config.Session,
		port:      config.Port,
		startTime: time.Now(),
	}

	// Настраиваем маршруты
	server.setupRoutes()

	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Группа API
	api := rs.router.Group("/api")
	{
		api.GET("/session", rs.handleSession)
		api.GET("/leaderboard", rs.handleLeaderboard)
		api.GET("/server", rs.handleServerInfo)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера (удобно в тестах)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// handleSession возвращает состояние текущей сессии
func (rs *RestServer) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Состояние сессии",
		Data:    rs.session.Snapshot(),
	})
}

// handleLeaderboard возвращает таблицу рекордов от лучшего к худшему
func (rs *RestServer) handleLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Таблица рекордов",
		Data:    rs.session.Leaderboard(),
	})
}

// handleServerInfo возвращает информацию о процессе
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data: map[string]interface{}{
			"uptime":      metrics.FormatUptime(time.Since(rs.startTime)),
			"memory":      metrics.MemoryStats(),
			"server_time": time.Now().Unix(),
		},
	})
}

// handleHealth обрабатывает проверку здоровья сервиса
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"phase":     rs.session.Snapshot().Phase,
		"timestamp": time.Now().Unix(),
	})
}

// Start запускает HTTP сервер в отдельной горутине
func (rs *RestServer) Start() {
	rs.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", rs.port),
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Info("🌐 REST API запущен на порту %d", rs.port)
		if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()
}

// Shutdown останавливает HTTP сервер
func (rs *RestServer) Shutdown(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return rs.httpServer.Shutdown(ctx)
}
