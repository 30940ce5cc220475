package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/bills"
	"github.com/carson-networks/church-finance/internal/handlers/funds"
	"github.com/carson-networks/church-finance/internal/handlers/ledger"
	"github.com/carson-networks/church-finance/internal/handlers/me"
	"github.com/carson-networks/church-finance/internal/handlers/members"
	"github.com/carson-networks/church-finance/internal/handlers/notifications"
	"github.com/carson-networks/church-finance/internal/handlers/offerings"
	"github.com/carson-networks/church-finance/internal/handlers/status"
	"github.com/carson-networks/church-finance/internal/handlers/transactions"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger        *logrus.Logger
	Port          string
	Storage       *storage.Storage
	Service       *service.Service
	Authenticator *auth.Authenticator
}

// NewAPI builds the huma API on mux with every operation registered.
func (r *Rest) NewAPI(mux *http.ServeMux) huma.API {
	config := huma.DefaultConfig("Church Finance API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.SchemeName: {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humago.New(mux, config)
	api.UseMiddleware(
		logging.Middleware(r.Logger),
		auth.Middleware(api, r.Authenticator, r.Logger),
	)

	funds.NewHandler(r.Service.Fund, r.Logger).Register(api)
	transactions.NewHandler(r.Service.Transaction, r.Logger).Register(api)
	bills.NewHandler(r.Service.Bill, r.Logger).Register(api)
	offerings.NewHandler(r.Service.Offering, r.Logger).Register(api)
	members.NewHandler(r.Service.Member, r.Logger).Register(api)
	ledger.NewHandler(r.Service.Ledger, r.Logger).Register(api)
	notifications.NewHandler(r.Service.Notification, r.Logger).Register(api)
	me.Register(api)
	return api
}

// Serve listens until ctx ends, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	r.NewAPI(mux)

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	return nil
}
