package router

import (
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/handler"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/middleware"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/repository"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/service"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	catalogCache := infra.NewRedisCache(rdb, "catalogo:")
	catalogTTL := time.Duration(cfg.CatalogCacheMinutes) * time.Minute
	resetTokens := infra.NewRedisTokenStore(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	paisRepo := repository.NewCatalogoRepository[model.Pais](db, "nombre ASC")
	ciudadRepo := repository.NewCatalogoRepository[model.Ciudad](db, "nombre ASC", "Pais")
	monedaRepo := repository.NewCatalogoRepository[model.Moneda](db, "codigo ASC")
	remitenteRepo := repository.NewCatalogoRepository[model.Remitente](db, "nombre ASC", "Ciudad")
	transportadoraRepo := repository.NewCatalogoRepository[model.Transportadora](db, "nombre ASC", "Ciudad")
	aduanaRepo := repository.NewCatalogoRepository[model.Aduana](db, "nombre ASC")
	crtRepo := repository.NewCRTRepository(db)
	micRepo := repository.NewMICRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg, resetTokens, dispatcher)
	crtSvc := service.NewCRTService(crtRepo, ciudadRepo, paisRepo)
	micSvc := service.NewMICService(micRepo, crtRepo, dispatcher, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	paisesH := handler.NewCatalogoHandler(service.NewPaisService(paisRepo, catalogCache, catalogTTL))
	ciudadesH := handler.NewCatalogoHandler(service.NewCiudadService(ciudadRepo, catalogCache, catalogTTL))
	monedasH := handler.NewCatalogoHandler(service.NewMonedaService(monedaRepo, catalogCache, catalogTTL))
	remitentesH := handler.NewCatalogoHandler(service.NewRemitenteService(remitenteRepo, catalogCache, catalogTTL))
	transportadorasH := handler.NewTransportadorasHandler(service.NewTransportadoraService(transportadoraRepo, catalogCache, catalogTTL))
	aduanasH := handler.NewCatalogoHandler(service.NewAduanaService(aduanaRepo, catalogCache, catalogTTL))
	crtH := handler.NewCRTHandler(crtSvc)
	micH := handler.NewMICHandler(micSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/forgot-password", middleware.LoginRateLimiter(), authH.OlvidePassword)
		auth.POST("/reset-password", authH.ResetPassword)
	}

	// Protected routes. Reads are open to every role; documents are
	// written by admin or operador, reference data by admin only.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(middleware.RolAdmin, middleware.RolOperador, middleware.RolConsulta)
	docWriter := middleware.RequireRole(middleware.RolAdmin, middleware.RolOperador)
	adminOnly := middleware.RequireRole(middleware.RolAdmin)

	me := api.Group("/auth", jwtMW)
	{
		me.GET("/me", authH.Me)
		me.POST("/change-password", authH.CambiarPassword)
		me.POST("/mfa/enroll", authH.MFAEnroll)
		me.POST("/mfa/verify", authH.MFAVerify)
		me.POST("/mfa/disable", authH.MFADisable)
	}

	p := api.Group("", jwtMW)

	usuarios := p.Group("/usuarios", adminOnly)
	{
		usuarios.POST("/", usuariosH.Crear)
		usuarios.GET("/", usuariosH.Listar)
		usuarios.PUT("/:id", usuariosH.Actualizar)
		usuarios.DELETE("/:id", usuariosH.Desactivar)
		usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
	}

	paisesH.Register(p.Group("/paises"), anyRole, adminOnly)
	ciudadesH.Register(p.Group("/ciudades"), anyRole, adminOnly)
	monedasH.Register(p.Group("/monedas"), anyRole, adminOnly)
	remitentesH.Register(p.Group("/remitentes"), anyRole, adminOnly)
	transportadorasH.Register(p.Group("/transportadoras"), anyRole, adminOnly)
	aduanasH.Register(p.Group("/aduanas"), anyRole, adminOnly)

	crts := p.Group("/crts")
	{
		crts.GET("/", anyRole, crtH.Listar)
		crts.GET("/estados", anyRole, crtH.Estados)
		crts.GET("/next_number", anyRole, crtH.SiguienteNumero)
		crts.GET("/export", anyRole, crtH.Exportar)
		crts.GET("/:id", anyRole, crtH.ObtenerPorID)
		crts.GET("/:id/campo15", anyRole, crtH.Campo15)
		crts.POST("/:id/pdf", anyRole, crtH.PDF)

		crts.POST("/", docWriter, crtH.Crear)
		crts.PUT("/:id", docWriter, crtH.Actualizar)
		crts.PATCH("/:id/estado", docWriter, crtH.CambiarEstado)
		crts.POST("/:id/duplicate", docWriter, crtH.Duplicar)
		crts.DELETE("/:id", docWriter, crtH.Eliminar)
	}

	p.GET("/mic/cargar-datos-crt/:crt", anyRole, micH.CargarDatosCRT)

	mics := p.Group("/mic-guardados")
	{
		mics.GET("/", anyRole, micH.Listar)
		mics.GET("/:id", anyRole, micH.ObtenerPorID)
		mics.GET("/:id/pdf", anyRole, micH.PDF)

		mics.POST("/crear-desde-crt/:crtId", docWriter, micH.CrearDesdeCRT)
		mics.PUT("/:id", docWriter, micH.Actualizar)
		mics.DELETE("/:id", docWriter, micH.Eliminar)
		mics.POST("/:id/enviar", docWriter, micH.Enviar)
	}

	return r
}
