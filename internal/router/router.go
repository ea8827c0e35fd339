package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Marcos-ViniciusDEV/PDV/internal/config"
	"github.com/Marcos-ViniciusDEV/PDV/internal/handler"
	"github.com/Marcos-ViniciusDEV/PDV/internal/infra"
	"github.com/Marcos-ViniciusDEV/PDV/internal/middleware"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
	"github.com/Marcos-ViniciusDEV/PDV/internal/service"
)

// New wires all dependencies and returns the configured Gin engine plus
// the sync service, whose lifecycle the caller owns.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *service.SyncService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, 1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	central := infra.NewCentralClient(cfg.CentralAPIURL)
	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// ── Repositories ─────────────────────────────────────────────────────────
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	counterSvc := service.NewCounterService(counterRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo, counterSvc)
	vendaSvc := service.NewVendaService(vendaRepo, caixaSvc, caixaSvc, counterSvc, cfg.PDVID)
	catalogoSvc := service.NewCatalogoService(catalogoRepo, central, rdb)
	authSvc := service.NewAuthService(catalogoRepo, cfg)
	syncSvc := service.NewSyncService(central, breaker, vendaRepo, caixaRepo, catalogoSvc,
		cfg.PDVID, cfg.CheckInterval(), cfg.SyncInterval())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	syncH := handler.NewSyncHandler(syncSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.GET("/operadores", authH.Operadores)
	}

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.POST("/fechar", caixaH.Fechar)
			caixa.GET("/status", caixaH.Status)
			caixa.POST("/sangria", caixaH.Sangria)
			caixa.POST("/reforco", caixaH.Reforco)
			caixa.GET("/:id/relatorio-x", caixaH.RelatorioX)
			caixa.GET("/relatorio-z", caixaH.RelatorioZ)
		}

		vendas := v1.Group("/vendas")
		{
			vendas.POST("", vendasH.Registrar)
			vendas.POST("/cancelar", vendasH.Cancelar)
			vendas.POST("/suspender", vendasH.Suspender)
			vendas.GET("/suspensas", vendasH.Suspensas)
			vendas.POST("/suspensas/:uuid/recuperar", vendasH.Recuperar)
			vendas.DELETE("/suspensas/:uuid", vendasH.ExcluirSuspensa)
			vendas.GET("/recentes", vendasH.Recentes)
			vendas.GET("/pendentes", vendasH.Pendentes)
		}

		produtos := v1.Group("/produtos")
		{
			produtos.GET("", catalogoH.Produtos)
			produtos.GET("/barcode/:barcode", catalogoH.PorBarcode)
			produtos.GET("/codigo/:codigo", catalogoH.PorCodigo)
			produtos.POST("/recarregar", middleware.RequireRole("supervisor", "administrador"), catalogoH.Recarregar)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/status", syncH.Status)
			sync.POST("/forcar", syncH.Forcar)
		}
	}

	return r, syncSvc
}
