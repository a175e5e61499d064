package router

import (
	"time"

	"syapos/internal/config"
	"syapos/internal/handler"
	"syapos/internal/infra"
	"syapos/internal/middleware"
	"syapos/internal/model"
	"syapos/internal/notify"
	"syapos/internal/repository"
	"syapos/internal/service"
	"syapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pushCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	realtime := infra.NewRealtimePublisher(rdb)
	locker := infra.NewRedisLocker(rdb)
	gate := notify.NewGate(dispatcher, realtime, log.Logger)

	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	cashCutRepo := repository.NewCashCutRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	resolver := service.NewResolver(employeeRepo, shiftRepo, saleRepo, assignmentRepo)
	snapshotSvc := service.NewSnapshotService(snapshotRepo, shiftRepo, employeeRepo, saleRepo, movementRepo, assignmentRepo, returnRepo, log.Logger)

	authSvc := service.NewAuthService(employeeRepo, cfg)
	shiftSvc := service.NewShiftService(shiftRepo, employeeRepo, cashCutRepo, saleRepo, movementRepo, snapshotSvc, gate, locker, dispatcher, log.Logger)
	saleSvc := service.NewSaleService(saleRepo, resolver, snapshotSvc, gate, log.Logger)
	movementSvc := service.NewMovementService(movementRepo, resolver, snapshotSvc, gate, log.Logger)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, returnRepo, debtRepo, saleRepo, employeeRepo, resolver, snapshotSvc, gate, log.Logger)
	returnSvc := service.NewReturnService(returnRepo, assignmentRepo, resolver, snapshotSvc, gate, log.Logger)
	cashCutSvc := service.NewCashCutService(cashCutRepo, resolver, gate, log.Logger)
	debtSvc := service.NewDebtService(debtRepo, dispatcher, log.Logger)
	deviceSvc := service.NewDeviceService(deviceTokenRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	shiftsH := handler.NewShiftsHandler(shiftSvc, snapshotSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	movementsH := handler.NewMovementsHandler(movementSvc)
	assignmentsH := handler.NewAssignmentsHandler(assignmentSvc, returnSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	cashCutsH := handler.NewCashCutsHandler(cashCutSvc)
	debtsH := handler.NewDebtsHandler(debtSvc)
	devicesH := handler.NewDevicesHandler(deviceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, pushCB))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdministrador, model.RoleEncargado, model.RoleCajero, model.RoleRepartidor)
	supervisors := middleware.RequireRole(model.RoleAdministrador, model.RoleEncargado)

	api := r.Group("/api", jwtMW)
	{
		// Device-driven sync. Every desktop and mobile client hits these;
		// role gates stay wide and idempotency does the real protection.
		sync := api.Group("/sync", anyRole)
		{
			sync.POST("/shifts/open", shiftsH.SyncOpen)
			sync.POST("/shifts/close", shiftsH.SyncClose)
			sync.POST("/sales", salesH.Sync)
			sync.POST("/sales/batch", salesH.SyncBatch)
			sync.POST("/expenses", movementsH.SyncKind(model.MovementExpense))
			sync.POST("/deposits", movementsH.SyncKind(model.MovementDeposit))
			sync.POST("/withdrawals", movementsH.SyncKind(model.MovementWithdrawal))
			sync.POST("/assignments", assignmentsH.Sync)
			sync.POST("/assignments/batch", assignmentsH.SyncBatch)
			sync.POST("/returns", returnsH.Sync)
			sync.POST("/cash-cuts/batch", cashCutsH.SyncBatch)
		}

		// Interactive shift lifecycle
		shifts := api.Group("/shifts")
		{
			shifts.POST("/open", anyRole, shiftsH.Open)
			shifts.POST("/close", anyRole, shiftsH.Close)
			shifts.GET("/current", anyRole, shiftsH.Current)
			shifts.GET("/history", supervisors, shiftsH.History)
			shifts.GET("/:id/summary", anyRole, shiftsH.Summary)
			shifts.GET("/:id/cash-snapshot", anyRole, shiftsH.CashSnapshot)
			shifts.GET("/:id/movements", anyRole, movementsH.ListByShift)
		}

		// Delivery workflow
		api.POST("/assignments/:global_id/liquidate", supervisors, assignmentsH.Liquidate)
		api.GET("/assignments/:global_id/returns", anyRole, assignmentsH.ListReturns)
		api.GET("/employees/:id/assignments", anyRole, assignmentsH.ListByEmployee)
		api.GET("/repartidores/summary", supervisors, assignmentsH.RepartidoresSummary)

		// Debts
		api.POST("/debts/:id/payments", supervisors, debtsH.RegisterPayment)
		api.GET("/debts/summary", supervisors, debtsH.BranchSummary)
		api.GET("/employees/:id/debts", anyRole, debtsH.ListByEmployee)

		// Cash cuts
		api.GET("/cash-cuts", supervisors, cashCutsH.ListByBranch)

		// Device registration for push
		api.POST("/devices", anyRole, devicesH.Register)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
