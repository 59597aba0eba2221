package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offerdesk/offerdesk/internal/admin"
	admindomain "github.com/offerdesk/offerdesk/internal/admin/domain"
	"github.com/offerdesk/offerdesk/internal/auth"
	authdomain "github.com/offerdesk/offerdesk/internal/auth/domain"
	"github.com/offerdesk/offerdesk/internal/auth/token"
	"github.com/offerdesk/offerdesk/internal/company"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/customer"
	customerdomain "github.com/offerdesk/offerdesk/internal/customer/domain"
	"github.com/offerdesk/offerdesk/internal/observability"
	"github.com/offerdesk/offerdesk/internal/offer"
	offerdomain "github.com/offerdesk/offerdesk/internal/offer/domain"
	"github.com/offerdesk/offerdesk/internal/product"
	productdomain "github.com/offerdesk/offerdesk/internal/product/domain"
	"github.com/offerdesk/offerdesk/internal/providers"
	"github.com/offerdesk/offerdesk/internal/ratelimit"
	"github.com/offerdesk/offerdesk/internal/user"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	observability.Module,
	providers.Module,
	ratelimit.Module,
	auth.Module,
	company.Module,
	customer.Module,
	product.Module,
	user.Module,
	offer.Module,
	admin.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log, httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	tokens        *token.Manager
	publicLimiter *ratelimit.PublicLimiter

	authSvc     authdomain.Service
	companySvc  companydomain.Service
	userSvc     userdomain.Service
	customerSvc customerdomain.Service
	productSvc  productdomain.Service
	offerSvc    offerdomain.Service
	adminSvc    admindomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Tokens        *token.Manager
	PublicLimiter *ratelimit.PublicLimiter

	AuthSvc     authdomain.Service
	CompanySvc  companydomain.Service
	UserSvc     userdomain.Service
	CustomerSvc customerdomain.Service
	ProductSvc  productdomain.Service
	OfferSvc    offerdomain.Service
	AdminSvc    admindomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		tokens:        p.Tokens,
		publicLimiter: p.PublicLimiter,
		authSvc:       p.AuthSvc,
		companySvc:    p.CompanySvc,
		userSvc:       p.UserSvc,
		customerSvc:   p.CustomerSvc,
		productSvc:    p.ProductSvc,
		offerSvc:      p.OfferSvc,
		adminSvc:      p.AdminSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/api/v1/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/refresh", s.Refresh)
	authGroup.POST("/logout", s.Logout)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	api.GET("/company", s.GetCompany)
	api.PUT("/company", s.UpdateCompany)
	api.POST("/company/logo", s.UploadCompanyLogo)
	api.POST("/company/upgrade", s.UpgradePlan)
	api.GET("/company/payments", s.ListPayments)
	api.POST("/company/payments", s.RecordPayment)

	api.GET("/users", s.ListUsers)
	api.POST("/users", s.CreateUser)
	api.PUT("/users/:id", s.UpdateUser)
	api.DELETE("/users/:id", s.DeleteUser)
	api.POST("/users/:id/toggle", s.ToggleUserActive)

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/offers", s.ListOffers)
	api.GET("/offers/company", s.ListCompanyOffers)
	api.POST("/offers", s.CreateOffer)
	api.GET("/offers/:id", s.GetOfferByID)
	api.PUT("/offers/:id", s.UpdateOffer)
	api.DELETE("/offers/:id", s.DeleteOffer)
	api.POST("/offers/:id/send", s.SendOffer)
	api.POST("/offers/:id/accept", s.AcceptOffer)
	api.POST("/offers/:id/reject", s.RejectOffer)
	api.POST("/offers/:id/cancel", s.CancelOffer)
	api.GET("/offers/:id/pdf", s.GetOfferPDF)
}

func (s *Server) registerAdminRoutes() {
	adminGroup := s.engine.Group("/api/v1/admin", s.AuthRequired(), SuperAdminRequired())

	adminGroup.GET("/dashboard", s.AdminDashboard)
	adminGroup.GET("/companies", s.AdminListCompanies)
	adminGroup.POST("/companies/:id/upgrade", s.AdminUpgradeCompany)
	adminGroup.POST("/companies/:id/toggle", s.AdminToggleCompany)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public", s.PublicRateLimit())

	public.GET("/offers/:token", s.GetPublicOffer)
	public.GET("/offers/:token/pdf", s.GetPublicOfferPDF)

	s.engine.Static("/uploads", s.cfg.UploadsDir)
}
