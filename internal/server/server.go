// Package server wires the HTTP surface: REST handlers, webhook intake and
// the payment-link interceptor that runs after invoice creation.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fakturo/fakturo/internal/config"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	"github.com/fakturo/fakturo/internal/providers/pdf"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Orgs     orgdomain.Service
	Invoices invoicedomain.Service
	Services servicedomain.Service
	Payments paymentdomain.Service
	PDF      pdf.Provider
}

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	orgs     orgdomain.Service
	invoices invoicedomain.Service
	services servicedomain.Service
	payments paymentdomain.Service
	pdf      pdf.Provider
}

func New(p Params) *Server {
	return &Server{
		cfg:      p.Cfg,
		log:      p.Log.Named("server"),
		orgs:     p.Orgs,
		invoices: p.Invoices,
		services: p.Services,
		payments: p.Payments,
		pdf:      p.PDF,
	}
}

// Engine builds the router with all routes and middleware attached.
func (s *Server) Engine() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(s.log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.cfg.AppVersion})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	invoices := api.Group("/invoices")
	invoices.Use(s.PaymentLinkInterceptor())
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.GET("/:id/pdf", s.GetInvoicePDF)

	api.GET("/organizations", s.ListOrganizations)
	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:id", s.GetOrganization)

	api.GET("/services", s.ListServiceCatalog)
	api.GET("/services/configs", s.ListServiceConfigs)
	api.PUT("/services/configs", s.UpsertServiceConfig)
	api.PATCH("/services/:provider/status", s.SetServiceStatus)

	api.GET("/payments", s.ListPayments)
	api.POST("/payments/webhooks/:provider/:org_id", s.PaymentWebhook)

	return r
}

func registerHooks(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
