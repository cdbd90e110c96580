// Package vmcsim is an in-memory stand-in for the CSP token endpoint and the
// part of the VMC API that sddcctl calls.
//
// It issues access tokens for one refresh token, keeps SDDCs per organization
// and completes every task after a fixed number of polls. It is used by the
// CLI tests and by `sddcctl simulate` for local dry runs.
package vmcsim

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

const (
	// DefaultRefreshToken is accepted when Config.RefreshToken is empty.
	DefaultRefreshToken = "sim-refresh-token"

	// DefaultPollsToFinish is the number of GETs after which a task finishes.
	DefaultPollsToFinish = 2

	// provisionMinutes is the initial estimate reported for a provision task.
	provisionMinutes = 120

	// deleteMinutes is the initial estimate reported for a delete task.
	deleteMinutes = 30
)

// SDDC states reported by the simulator.
const (
	StateDeploying = "DEPLOYING"
	StateReady     = "READY"
	StateDeleting  = "DELETING"
	StateFailed    = "FAILED"
)

// Config holds configuration for a Simulator.
type Config struct {
	// RefreshToken is the only refresh token the authorize endpoint accepts
	// (default: DefaultRefreshToken)
	RefreshToken string

	// ConnectedAccounts is returned for every organization
	// (default: a single account "acct-sim")
	ConnectedAccounts []models.ConnectedAccount

	// SDDCs seeds organizations with existing SDDCs, keyed by org id
	SDDCs map[string][]models.SDDC

	// PollsToFinish is how many task GETs it takes for a task to finish
	// (default: DefaultPollsToFinish)
	PollsToFinish int

	// FailNames lists SDDC names whose provision task ends FAILED
	FailNames []string

	// OrgRequestsPerSecond throttles VMC calls per organization with 429
	// answers (0 disables throttling)
	OrgRequestsPerSecond float64

	// OrgBurst is the per-organization burst size (default: 1)
	OrgBurst int

	// Logger is the structured logger (optional, no-op if nil)
	Logger *zap.Logger
}

type simTask struct {
	task  models.Task
	org   string
	polls int
}

// Simulator serves the simulated CSP and VMC endpoints.
type Simulator struct {
	config  Config
	logger  *zap.Logger
	metrics *simMetrics
	engine  *gin.Engine

	mu           sync.Mutex
	accessTokens map[string]struct{}
	sddcs        map[string][]models.SDDC
	tasks        map[string]*simTask
	failNames    map[string]struct{}
}

// New creates a simulator with the given configuration.
func New(config Config) *Simulator {
	if config.RefreshToken == "" {
		config.RefreshToken = DefaultRefreshToken
	}
	if config.ConnectedAccounts == nil {
		config.ConnectedAccounts = []models.ConnectedAccount{{ID: "acct-sim", State: "ACTIVE"}}
	}
	if config.PollsToFinish <= 0 {
		config.PollsToFinish = DefaultPollsToFinish
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Simulator{
		config:       config,
		logger:       logger,
		metrics:      newSimMetrics(),
		accessTokens: make(map[string]struct{}),
		sddcs:        make(map[string][]models.SDDC),
		tasks:        make(map[string]*simTask),
		failNames:    make(map[string]struct{}),
	}
	for org, list := range config.SDDCs {
		s.sddcs[org] = append([]models.SDDC(nil), list...)
	}
	for _, name := range config.FailNames {
		s.failNames[name] = struct{}{}
	}
	s.metrics.sddcs.Set(float64(s.countSDDCs()))

	s.engine = s.setupRouter()
	return s
}

// Handler returns the HTTP handler serving every simulated endpoint.
func (s *Simulator) Handler() http.Handler {
	return s.engine
}

// Registry returns the registry holding the simulator's metrics.
func (s *Simulator) Registry() *prometheus.Registry {
	return s.metrics.registry
}

// SDDCs returns a copy of the SDDCs currently held for org.
func (s *Simulator) SDDCs(org string) []models.SDDC {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SDDC(nil), s.sddcs[org]...)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down.
func (s *Simulator) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Simulator listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Simulator shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Simulator) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware(s.metrics))
	router.Use(requestLogger(s.logger))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	router.POST(sdk.AuthorizePath, s.handleAuthorize)

	orgs := router.Group("/vmc/api/orgs/:org")
	orgs.Use(s.requireAccessToken)
	if s.config.OrgRequestsPerSecond > 0 {
		orgs.Use(newOrgThrottle(s.config.OrgRequestsPerSecond, s.config.OrgBurst).middleware())
	}
	{
		orgs.GET("/account-link/connected-accounts", s.handleListConnectedAccounts)
		orgs.GET("/sddcs", s.handleListSDDCs)
		orgs.POST("/sddcs", s.handleCreateSDDC)
		orgs.DELETE("/sddcs/:sddc", s.handleDeleteSDDC)
		orgs.GET("/tasks/:task", s.handleGetTask)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not.found", "no such endpoint")
	})

	return router
}

// countSDDCs must be called with mu held or before the simulator is shared.
func (s *Simulator) countSDDCs() int {
	n := 0
	for _, list := range s.sddcs {
		n += len(list)
	}
	return n
}
