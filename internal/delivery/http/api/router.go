package api

import (
	"net/url"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-scout-backend/config"
	"go-scout-backend/internal/delivery/http/middleware"
	"go-scout-backend/internal/delivery/ws"
	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/notify"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/ratelimit"
	"go-scout-backend/pkg/security"
)

// Guards are the per-route middlewares handlers attach to their groups.
type Guards struct {
	Seeker         gin.HandlerFunc
	Company        gin.HandlerFunc
	Admin          gin.HandlerFunc
	CompanyOrAdmin gin.HandlerFunc
	// Limit returns the rate limiter for a named action.
	Limit          func(action string) gin.HandlerFunc
}

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	ResumeUC      domain.ResumeUsecase
	AnnotationUC  domain.AnnotationUsecase
	JobUC         domain.JobUsecase
	LedgerUC      domain.LedgerUsecase
	ScoutUC       domain.ScoutUsecase
	ApplicationUC domain.ApplicationUsecase
	InterviewUC   domain.InterviewUsecase
	MessageUC     domain.MessageUsecase
	SearchUC      domain.SearchUsecase
	DashboardUC   domain.DashboardUsecase
	AdminUC       domain.AdminUsecase
	BillingUC     domain.BillingUsecase
	HealthUC      usecase.HealthUsecase
	Tokens        middleware.TokenVerifier
	Limiter       *ratelimit.Limiter
	Hub           *notify.Hub
	SecLog        *security.SecurityLogger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	NewHealthHandler(r, deps.HealthUC)
	ws.NewNotificationHandler(r, deps.Hub, deps.Tokens, deps.AuthUC, deps.SecLog, originHosts(deps.Config.AllowedOrigins))

	g := newGuards(deps)

	// v1 is kept for existing clients; both prefixes serve the same routes.
	for _, prefix := range []string{"/api/v1", "/api/v2"} {
		mount(r.Group(prefix), deps, g)
	}
	r.GET("/api/v2/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func mount(public *gin.RouterGroup, deps RouterDeps, g Guards) {
	public.Use(g.Limit(config.ActionGlobal))
	NewHealthHandler(public, deps.HealthUC)

	protected := public.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC, deps.SecLog))
	{
		NewAuthHandler(public, protected, deps.AuthUC, g)
		NewProfileHandler(protected, deps.ProfileUC)
		NewResumeHandler(protected, deps.ResumeUC, deps.AnnotationUC, g)
		NewJobHandler(protected, deps.JobUC, deps.LedgerUC, g)
		NewScoutHandler(protected, deps.ScoutUC, g)
		NewApplicationHandler(protected, deps.ApplicationUC, g)
		NewInterviewHandler(protected, deps.InterviewUC)
		NewMessageHandler(protected, deps.MessageUC)
		NewSearchHandler(protected, deps.SearchUC, g)
		NewDashboardHandler(protected, deps.DashboardUC)
		NewAdminHandler(protected, deps.AdminUC, g)
		NewBillingHandler(public, protected, deps.BillingUC, deps.Config.BillingWebhookSecret, deps.SecLog)
	}
}

func newGuards(deps RouterDeps) Guards {
	return Guards{
		Seeker:         middleware.RequireRole(deps.SecLog, domain.RoleSeeker),
		Company:        middleware.RequireRole(deps.SecLog, domain.RoleCompany),
		Admin:          middleware.RequireRole(deps.SecLog, domain.RoleAdmin),
		CompanyOrAdmin: middleware.RequireRole(deps.SecLog, domain.RoleCompany, domain.RoleAdmin),
		Limit: func(action string) gin.HandlerFunc {
			p := deps.Config.Policy(action)
			return middleware.RateLimitMiddleware(deps.Limiter, action, ratelimit.Policy{Limit: p.Limit, Window: p.Window}, deps.SecLog)
		},
	}
}

// originHosts turns the CORS allowlist into WebSocket origin patterns.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
