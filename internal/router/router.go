package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/config"
	"github.com/hvilloria/simple-stock/internal/handler"
	"github.com/hvilloria/simple-stock/internal/infra"
	"github.com/hvilloria/simple-stock/internal/middleware"
	"github.com/hvilloria/simple-stock/internal/repository"
	"github.com/hvilloria/simple-stock/internal/service"
)

// New compone el router completo: repositorios, servicios, handlers y rutas.
// mostradorID es el cliente centinela ya resuelto en el arranque.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mostradorID uuid.UUID) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ─── Repositorios ────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	notaRepo := repository.NewNotaCreditoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	historialRepo := repository.NewHistorialCostoRepository(db)

	// ─── Servicios ───────────────────────────────────────────────────────────
	var mailer service.Mailer
	if m := infra.NewMailer(cfg); m != nil {
		mailer = m
	}

	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	costeoSvc := service.NewCosteoService(productoRepo, compraRepo, historialRepo)
	productoSvc := service.NewProductoService(productoRepo, historialRepo, rdb)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, clienteRepo, movimientoRepo, inventarioSvc, mostradorID)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo, productoRepo, notaRepo, movimientoRepo, inventarioSvc, costeoSvc, mailer)
	notaSvc := service.NewNotaCreditoService(notaRepo, compraRepo, proveedorRepo)
	pagoSvc := service.NewPagoService(pagoRepo, pedidoRepo, clienteRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	authSvc := service.NewAuthService(usuarioRepo, cfg)

	// ─── Handlers ────────────────────────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authSvc)
	usuariosHandler := handler.NewUsuariosHandler(authSvc)
	productosHandler := handler.NewProductosHandler(productoSvc)
	preciosHandler := handler.NewConsultaPreciosHandler(productoSvc)
	inventarioHandler := handler.NewInventarioHandler(inventarioSvc)
	pedidosHandler := handler.NewPedidosHandler(pedidoSvc, pedidoRepo, cfg)
	comprasHandler := handler.NewComprasHandler(compraSvc)
	notasHandler := handler.NewNotasCreditoHandler(notaSvc)
	pagosHandler := handler.NewPagosHandler(pagoSvc)
	clientesHandler := handler.NewClientesHandler(clienteSvc)
	proveedoresHandler := handler.NewProveedoresHandler(proveedorSvc)

	// ─── Rutas públicas ──────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Consulta de precios del mostrador: pública, sólo lectura.
	r.GET("/v1/precio/:sku", preciosHandler.GetPrecioPorSKU)

	// ─── Rutas protegidas ────────────────────────────────────────────────────
	v1 := r.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	lectura := v1.Group("")
	lectura.Use(middleware.RequireRole("vendedor", "administrador"))
	{
		lectura.GET("/productos", productosHandler.Listar)
		lectura.GET("/productos/:id", productosHandler.ObtenerPorID)
		lectura.GET("/productos/:id/historial-costos", productosHandler.HistorialCostos)
		lectura.GET("/movimientos", inventarioHandler.ListarMovimientos)
		lectura.GET("/pedidos", pedidosHandler.Listar)
		lectura.GET("/pedidos/:id", pedidosHandler.ObtenerPorID)
		lectura.GET("/pedidos/:id/recibo", pedidosHandler.DescargarRecibo)
		lectura.GET("/compras", comprasHandler.Listar)
		lectura.GET("/compras/:id", comprasHandler.ObtenerPorID)
		lectura.GET("/notas-credito", notasHandler.Listar)
		lectura.GET("/notas-credito/:id", notasHandler.ObtenerPorID)
		lectura.GET("/pagos", pagosHandler.Listar)
		lectura.GET("/clientes", clientesHandler.Listar)
		lectura.GET("/clientes/:id", clientesHandler.ObtenerPorID)
		lectura.GET("/clientes/:id/saldo", pagosHandler.Saldo)
		lectura.GET("/proveedores", proveedoresHandler.Listar)
		lectura.GET("/proveedores/:id", proveedoresHandler.ObtenerPorID)

		// El mostrador registra pedidos y cobra; no administra catálogo.
		lectura.POST("/pedidos", pedidosHandler.Crear)
		lectura.POST("/pagos", pagosHandler.Registrar)
	}

	admin := v1.Group("")
	admin.Use(middleware.RequireRole("administrador"))
	{
		admin.POST("/productos", productosHandler.Crear)
		admin.PUT("/productos/:id", productosHandler.Actualizar)
		admin.DELETE("/productos/:id", productosHandler.Desactivar)
		admin.POST("/productos/:id/reactivar", productosHandler.Reactivar)

		admin.POST("/movimientos/ajuste", inventarioHandler.Ajustar)

		admin.POST("/pedidos/:id/anular", pedidosHandler.Anular)

		admin.POST("/compras", comprasHandler.Crear)
		admin.POST("/facturas", comprasHandler.CrearFactura)
		admin.POST("/compras/:id/pagar", comprasHandler.MarcarPagada)
		admin.POST("/compras/pagar-periodo", comprasHandler.MarcarPeriodoPagado)
		admin.POST("/compras/:id/anular", comprasHandler.Anular)

		admin.POST("/notas-credito", notasHandler.Crear)
		admin.POST("/notas-credito/:id/aplicar", notasHandler.Aplicar)
		admin.POST("/notas-credito/:id/anular", notasHandler.Anular)

		admin.POST("/clientes", clientesHandler.Crear)
		admin.PUT("/clientes/:id", clientesHandler.Actualizar)
		admin.DELETE("/clientes/:id", clientesHandler.Desactivar)

		admin.POST("/proveedores", proveedoresHandler.Crear)
		admin.PUT("/proveedores/:id", proveedoresHandler.Actualizar)
		admin.DELETE("/proveedores/:id", proveedoresHandler.Eliminar)

		admin.POST("/usuarios", usuariosHandler.Crear)
		admin.GET("/usuarios", usuariosHandler.Listar)
		admin.PUT("/usuarios/:id", usuariosHandler.Actualizar)
		admin.DELETE("/usuarios/:id", usuariosHandler.Desactivar)
		admin.POST("/usuarios/:id/reactivar", usuariosHandler.Reactivar)
	}

	return r
}
