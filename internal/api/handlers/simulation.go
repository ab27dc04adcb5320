package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/power-market-sim/power-market-sim/internal/api/models"
	"github.com/power-market-sim/power-market-sim/sim"
	"github.com/power-market-sim/power-market-sim/sim/trace"
)

// Default request limits. Each period allocates one record.
const (
	DefaultMaxPeriods     = 1_000_000
	DefaultMaxSweepLevels = 101
)

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxPeriods     int
	MaxSweepLevels int
}

// DefaultLimits returns DefaultMaxPeriods and DefaultMaxSweepLevels.
func DefaultLimits() Limits {
	return Limits{MaxPeriods: DefaultMaxPeriods, MaxSweepLevels: DefaultMaxSweepLevels}
}

// checkPeriods rejects horizons above the limit with a *sim.ConfigError.
func (l Limits) checkPeriods(periods int) error {
	if periods > l.MaxPeriods {
		return &sim.ConfigError{Field: "periods", Reason: fmt.Sprintf("must be <= %d, got %d", l.MaxPeriods, periods)}
	}
	return nil
}

func (l Limits) checkSweepLevels(n int) error {
	if n > l.MaxSweepLevels {
		return &sim.ConfigError{Field: "levels", Reason: fmt.Sprintf("at most %d levels, got %d", l.MaxSweepLevels, n)}
	}
	return nil
}

// SimulationHandler handles simulation and sweep requests
type SimulationHandler struct {
	limits  Limits
	newSeed func() int64
	newID   func() string
}

// NewSimulationHandler creates a handler that draws missing seeds from the wall clock.
func NewSimulationHandler(limits Limits) *SimulationHandler {
	return &SimulationHandler{
		limits:  limits,
		newSeed: func() int64 { return time.Now().UnixNano() },
		newID:   uuid.NewString,
	}
}

func (h *SimulationHandler) resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return h.newSeed()
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	req := models.NewSimulateRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if err := h.limits.checkPeriods(req.Config.Periods); err != nil {
		writeSimulationError(c, err)
		return
	}

	seed := h.resolveSeed(req.Seed)
	key := sim.NewSimulationKey(seed)
	var opts []sim.RunOption
	if req.Trace {
		opts = append(opts, sim.WithTrace())
	}

	var (
		run *sim.Run
		err error
	)
	if req.Comparison {
		run, err = sim.RunComparison(req.Config, key, opts...)
	} else {
		run, err = sim.Simulate(req.Config, key, opts...)
	}
	if err != nil {
		writeSimulationError(c, err)
		return
	}

	resp := models.SimulateResponse{
		ID:               h.newID(),
		Seed:             seed,
		Config:           run.Config,
		Metrics:          run.Metrics,
		EfficiencyRating: sim.EfficiencyRating(run.Metrics.PriceEfficiency),
	}
	if req.IncludeRecords {
		resp.Records = run.Records
	}
	if run.Trace != nil {
		resp.TraceSummary = trace.Summarize(run.Trace)
	}
	logrus.Debugf("Simulation %s: seed=%d periods=%d comparison=%v", resp.ID, seed, len(run.Records), req.Comparison)
	c.JSON(http.StatusOK, resp)
}

// Sweep handles POST /api/v1/sweep
func (h *SimulationHandler) Sweep(c *gin.Context) {
	req := models.NewSweepRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	levels := req.Levels
	if len(levels) == 0 {
		levels = sim.DefaultSweepLevels()
	}
	if err := h.limits.checkPeriods(req.Config.Periods); err != nil {
		writeSimulationError(c, err)
		return
	}
	if err := h.limits.checkSweepLevels(len(levels)); err != nil {
		writeSimulationError(c, err)
		return
	}

	seed := h.resolveSeed(req.Seed)
	points, err := sim.Sweep(req.Config, sim.NewSimulationKey(seed), levels)
	if err != nil {
		writeSimulationError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SweepResponse{
		ID:     h.newID(),
		Seed:   seed,
		Points: points,
	})
}

// writeSimulationError maps configuration errors to 400 and anything else to 500.
func writeSimulationError(c *gin.Context, err error) {
	var cfgErr *sim.ConfigError
	if errors.As(err, &cfgErr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
				Details: map[string]interface{}{"field": cfgErr.Field},
			},
		})
		return
	}
	logrus.Errorf("Simulation failed: %v", err)
	writeError(c, http.StatusInternalServerError, "SIMULATION_ERROR", err)
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
