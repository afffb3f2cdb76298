package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nikh123/RealEstateHub/internal/config"
	"github.com/nikh123/RealEstateHub/internal/handler"
	appmw "github.com/nikh123/RealEstateHub/internal/middleware"
	"github.com/nikh123/RealEstateHub/internal/model"
	"github.com/nikh123/RealEstateHub/internal/repository"
	"github.com/nikh123/RealEstateHub/internal/service"
)

type Deps struct {
	Store             *repository.Store
	Notifier          service.OfferNotifier
	FallbackRecipient string
	// NotifyAsync reports that Notifier queues mails instead of sending them inline.
	NotifyAsync       bool
	Policy            service.Policy
	AllowedOrigins    []string
	Log               *slog.Logger
	GitSHA            string
	BuildTime         string
}

// Services is the application layer built by New, exposed for seeding.
type Services struct {
	Properties service.PropertyService
	Offers     service.OfferService
	Buyers     service.BuyerService
	Sellers    service.SellerService
}

type Server struct {
	e        *echo.Echo
	Services Services
}

func New(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(d.Log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(d.AllowedOrigins),
	}))

	svcs := Services{
		Properties: service.NewPropertyService(d.Store, d.Policy, d.Log),
		Offers:     service.NewOfferService(d.Store, d.Notifier, d.FallbackRecipient, d.Policy, d.Log),
		Buyers:     service.NewBuyerService(d.Store, d.Policy, d.Log),
		Sellers:    service.NewSellerService(d.Store, d.Policy, d.Log),
	}
	propertyHandler := handler.NewPropertyHandler(svcs.Properties, d.Log)
	offerHandler := handler.NewOfferHandler(svcs.Offers, d.Log, d.NotifyAsync)
	buyerHandler := handler.NewBuyerHandler(svcs.Buyers, d.Log)
	sellerHandler := handler.NewSellerHandler(svcs.Sellers, d.Log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    d.GitSHA,
			"build_time": d.BuildTime,
		})
	})

	api := e.Group("/api")

	api.POST("/properties", propertyHandler.Create)
	api.GET("/properties", propertyHandler.List)
	api.GET("/properties/search", propertyHandler.Search)
	api.GET("/properties/:id", propertyHandler.Get)
	api.PUT("/properties/:id", propertyHandler.Update)
	api.DELETE("/properties/:id", propertyHandler.Delete)

	api.POST("/offers", offerHandler.Create)
	api.GET("/offers", offerHandler.List)
	api.GET("/offers/property/:propertyId", offerHandler.ListByProperty)
	api.GET("/offers/:id", offerHandler.Get)
	api.PUT("/offers/:id/status", offerHandler.UpdateStatus)
	api.POST("/offers/:id/respond", offerHandler.Respond)
	api.DELETE("/offers/:id", offerHandler.Delete)

	api.POST("/buyers", buyerHandler.Create)
	api.GET("/buyers", buyerHandler.List)
	api.GET("/buyers/:id", buyerHandler.Get)
	api.PUT("/buyers/:id/budget", buyerHandler.UpdateBudget)
	api.POST("/buyers/:id/interests", buyerHandler.AddInterest)
	api.GET("/buyers/:id/offers", offerHandler.ListByBuyer)
	api.DELETE("/buyers/:id", buyerHandler.Delete)

	api.POST("/sellers", sellerHandler.Create)
	api.GET("/sellers", sellerHandler.List)
	api.GET("/sellers/:id", sellerHandler.Get)
	api.PUT("/sellers/:id", sellerHandler.Update)
	api.DELETE("/sellers/:id", sellerHandler.Delete)
	api.GET("/sellers/:id/properties", propertyHandler.ListBySeller)
	api.POST("/sellers/:id/properties", propertyHandler.PublishNew)
	api.PUT("/sellers/:id/properties/:propertyId/publish", propertyHandler.PublishExisting)
	api.GET("/sellers/:id/offers", offerHandler.ListBySeller)

	return &Server{e: e, Services: svcs}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// PolicyFromConfig converts the env-driven policy block into service rules.
func PolicyFromConfig(p config.Policy) service.Policy {
	return service.Policy{
		AcceptPropertyStatus: model.PropertyStatus(strings.ToUpper(strings.TrimSpace(p.AcceptPropertyStatus))),
		RejectCompeting:      p.AcceptRejectsOthers,
		StrictTransitions:    p.StrictTransitions,
		Delete:               service.DeletePolicy(p.Delete),
	}
}

func allowOrigin(extra []string) func(string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		return slices.ContainsFunc(extra, func(o string) bool {
			return strings.EqualFold(strings.TrimRight(strings.TrimSpace(o), "/"), low)
		}), nil
	}
}
