package router

import (
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/config"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/handler"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/middleware"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/model"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// rdb, mailCB and notificador may be nil: rebalancing then runs unlocked,
// rate limiting is per process and no mail jobs are enqueued.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, metrics *infra.Metrics, notificador service.Notificador) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if metrics == nil {
		metrics = infra.NewMetrics()
	}

	var counter middleware.Counter = middleware.NewMemoryCounter()
	var locker service.Locker
	if rdb != nil {
		counter = middleware.NewRedisCounter(rdb)
		locker = infra.NewGymLocker(rdb, time.Duration(cfg.RebalanceLockTTLSeconds)*time.Second)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Env, cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.APIRateLimiter(counter, cfg.RateLimitPerMinute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	telefonos := infra.NewPhoneValidator(cfg.PhoneDefaultRegion)
	imagenes := infra.NewImageResizer(cfg.ImageMaxSize, cfg.ImageJPEGQuality)
	tokens := service.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	// ── Repositories ─────────────────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(db)
	colaboradorRepo := repository.NewColaboradorRepository(db)
	gimnasioRepo := repository.NewGimnasioRepository(db)
	membresiaRepo := repository.NewMembresiaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	ventaRepo := repository.NewVentaProductoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	notaRepo := repository.NewNotaRepository(db)
	eventoRepo := repository.NewEventoCalendarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	directorio := service.NewDirectorio(adminRepo, colaboradorRepo)
	authSvc := service.NewAuthService(adminRepo, colaboradorRepo, tokens, telefonos)
	gimnasioSvc := service.NewGimnasioService(gimnasioRepo, adminRepo, colaboradorRepo, tokens, imagenes, metrics)
	membresiaSvc := service.NewMembresiaService(membresiaRepo, clienteRepo, locker, metrics)
	clienteSvc := service.NewClienteService(clienteRepo, membresiaRepo, membresiaSvc, directorio, telefonos, notificador, metrics)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	productoSvc := service.NewProductoService(productoRepo, proveedorRepo, inventarioSvc, directorio, imagenes)
	ventaSvc := service.NewVentaService(ventaRepo, clienteRepo, adminRepo, gimnasioRepo, inventarioSvc, directorio, notificador, metrics, cfg.LowStockAlerts)
	proveedorSvc := service.NewProveedorService(proveedorRepo, productoRepo, directorio, telefonos)
	notaSvc := service.NewNotaService(notaRepo)
	calendarioSvc := service.NewCalendarioService(eventoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	colaboradoresH := handler.NewColaboradoresHandler(authSvc)
	gimnasioH := handler.NewGimnasioHandler(gimnasioSvc)
	membresiasH := handler.NewMembresiasHandler(membresiaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	notasH := handler.NewNotasHandler(notaSvc)
	calendarioH := handler.NewCalendarioHandler(calendarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	loginRL := middleware.LoginRateLimiter(counter, cfg.LoginRateLimitPerMinute)
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := middleware.RequireRole(model.TipoAdministrador)
	ambos := middleware.RequireRole(model.TipoAdministrador, model.TipoColaborador)
	gym := middleware.RequireGym()

	api := r.Group("/api")

	adm := api.Group("/admin")
	{
		adm.POST("/register", authH.RegistrarAdmin)
		adm.POST("/login", loginRL, authH.LoginAdmin)
		adm.GET("/me", jwtMW, admin, authH.Me)
	}

	col := api.Group("/colaborator")
	{
		col.POST("/login", loginRL, authH.LoginColaborador)
		col.GET("/me", jwtMW, ambos, authH.Me)

		mgmt := col.Group("", jwtMW, admin, gym)
		{
			mgmt.POST("/register", colaboradoresH.Registrar)
			mgmt.GET("/all", colaboradoresH.Listar)
			mgmt.POST("/updated", colaboradoresH.Actualizar)
			mgmt.POST("/delete", colaboradoresH.Eliminar)
			mgmt.GET("/:id", colaboradoresH.ObtenerPorID)
		}
	}

	// Gym creation is the only gym-scoped write allowed without a gym_id.
	gyms := api.Group("/gym", jwtMW, admin)
	{
		gyms.POST("/created", gimnasioH.Crear)
		gyms.GET("/mygym", gym, gimnasioH.MiGimnasio)
		gyms.POST("/updated", gym, gimnasioH.Actualizar)
		gyms.POST("/delete", gym, gimnasioH.Eliminar)
	}

	// Everything below requires a token that carries a gym.
	scoped := api.Group("", jwtMW, ambos, gym)

	memb := scoped.Group("/membership")
	{
		memb.GET("/all", membresiasH.Listar)
		memb.GET("/:id", membresiasH.ObtenerPorID)
		memb.POST("/created", admin, membresiasH.Crear)
		memb.POST("/updated", admin, membresiasH.Actualizar)
		memb.POST("/delete", admin, membresiasH.Eliminar)
	}

	cli := scoped.Group("/client")
	{
		cli.POST("/created", clientesH.Crear)
		cli.POST("/updated", clientesH.Actualizar)
		cli.POST("/delete", clientesH.Eliminar)
		cli.GET("/all", clientesH.Listar)
		cli.GET("/:id", clientesH.ObtenerPorID)
	}

	prod := scoped.Group("/product")
	{
		prod.POST("/create", productosH.Crear)
		prod.POST("/sell", ventasH.Vender)
		prod.GET("/all", productosH.Listar)
		prod.GET("/:id", productosH.ObtenerPorID)
		prod.GET("/:id/movements", productosH.Movimientos)
		prod.POST("/update", admin, productosH.Actualizar)
		prod.POST("/delete", admin, productosH.Eliminar)
	}

	ventas := scoped.Group("/productSale")
	{
		ventas.POST("/sell", ventasH.Vender)
		ventas.GET("/all", ventasH.Listar)
		ventas.GET("/export", admin, ventasH.Exportar)
		ventas.GET("/:id", ventasH.ObtenerPorID)
		ventas.GET("/:id/receipt", ventasH.Recibo)
		ventas.POST("/cancel", admin, ventasH.Cancelar)
		ventas.POST("/delete", admin, ventasH.Eliminar)
		ventas.POST("/delete-bulk", admin, ventasH.EliminarLote)
	}

	prov := scoped.Group("/supplier")
	{
		prov.POST("/create", proveedoresH.Crear)
		prov.GET("/all", proveedoresH.Listar)
		prov.GET("/:id", proveedoresH.ObtenerPorID)
		prov.POST("/update", admin, proveedoresH.Actualizar)
		prov.POST("/delete", admin, proveedoresH.Eliminar)
	}

	notas := scoped.Group("/note")
	{
		notas.POST("/create", notasH.Crear)
		notas.POST("/update", notasH.Actualizar)
		notas.POST("/delete", notasH.Eliminar)
		notas.GET("/all", notasH.Listar)
		notas.GET("/stats", notasH.Estadisticas)
		notas.GET("/search", notasH.Buscar)
		notas.GET("/:id", notasH.ObtenerPorID)
	}

	cal := scoped.Group("/calendar")
	{
		cal.POST("/create", calendarioH.Crear)
		cal.GET("/all", calendarioH.Listar)
		cal.GET("/today", calendarioH.Hoy)
		cal.GET("/date-range", calendarioH.Rango)
		cal.GET("/:id", calendarioH.ObtenerPorID)
		cal.PUT("/:id", calendarioH.Actualizar)
		cal.DELETE("/:id", calendarioH.Eliminar)
	}

	// Swagger UI outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
