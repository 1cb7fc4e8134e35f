package server

import (
	"net/http"

	"paisawise/internal/cache"
	"paisawise/internal/config"
	"paisawise/internal/handler"
	"paisawise/internal/middleware"
	"paisawise/internal/repository"
	"paisawise/internal/service"
	"paisawise/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services is the assembled service layer (Repository -> Service).
type Services struct {
	Users         service.UserService
	Organizations service.OrganizationService
	Budgets       service.BudgetService
	CashFlow      service.CashFlowService
	BalanceSheet  service.BalanceSheetService
	Requests      service.BudgetRequestService
	Reconcile     service.ReconcileService
	Summary       service.SummaryService
	Statements    service.StatementService
	Audit         service.AuditService
}

// Deps are the process-wide collaborators the services share.
type Deps struct {
	DB          *gorm.DB
	Departments []string
	Secret      []byte
	Cache       cache.MembershipCache
	Notifier    service.Notifier
	Log         logrus.FieldLogger
}

func NewServices(d Deps) *Services {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Notifier == nil {
		d.Notifier = service.NopNotifier{}
	}

	db := d.DB
	departments := service.NewDepartmentCatalog(d.Departments)

	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	cashRepo := repository.NewCashFlowRepository(db)
	ledgerRepo := repository.NewBalanceSheetRepository(db)
	requestRepo := repository.NewBudgetRequestRepository(db)
	statementRepo := repository.NewStatementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	s := &Services{}
	s.Users = service.NewUserService(userRepo, memberRepo, d.Cache, d.Secret)
	s.Organizations = service.NewOrganizationService(tx, orgRepo, memberRepo, auditRepo, d.Cache, d.Notifier, d.Log)
	s.Budgets = service.NewBudgetService(tx, budgetRepo, auditRepo, departments, d.Notifier, d.Log)
	s.BalanceSheet = service.NewBalanceSheetService(ledgerRepo, auditRepo, d.Log)
	s.CashFlow = service.NewCashFlowService(tx, cashRepo, s.BalanceSheet, auditRepo, departments, d.Notifier, d.Log)
	s.Requests = service.NewBudgetRequestService(tx, requestRepo, ledgerRepo, s.Budgets, s.BalanceSheet, auditRepo, departments, d.Notifier, d.Log)
	s.Reconcile = service.NewReconcileService(tx, orgRepo, requestRepo, cashRepo, ledgerRepo, s.BalanceSheet, auditRepo, d.Notifier, d.Log)
	s.Summary = service.NewSummaryService(ledgerRepo)
	s.Statements = service.NewStatementService(tx, statementRepo, auditRepo, d.Notifier, d.Log)
	s.Audit = service.NewAuditService(auditRepo)
	return s
}

// NewRouter mounts every handler. hub may be nil, in which case /ws is not served.
func NewRouter(cfg config.Config, svc *Services, hub *websocket.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	secret := cfg.Secret()
	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(hub, c, secret, svc.Users.ResolveActor)
		})
	}

	requireAuth := middleware.Authenticate(secret, svc.Users)
	cookie := middleware.CookieOptions{Secure: cfg.Server.Mode == gin.ReleaseMode}

	handler.NewUserHandler(svc.Users, requireAuth, cookie).RegisterRoutes(router.Group(""))

	api := router.Group("/api", requireAuth)
	handler.NewOrganizationHandler(svc.Organizations).RegisterRoutes(api)
	handler.NewBudgetHandler(svc.Budgets).RegisterRoutes(api)
	handler.NewCashFlowHandler(svc.CashFlow).RegisterRoutes(api)
	handler.NewBalanceSheetHandler(svc.BalanceSheet, svc.Summary).RegisterRoutes(api)
	handler.NewBudgetRequestHandler(svc.Requests, svc.Reconcile).RegisterRoutes(api)
	handler.NewStatementHandler(svc.Statements).RegisterRoutes(api)
	handler.NewAuditHandler(svc.Audit).RegisterRoutes(api)

	return router
}
