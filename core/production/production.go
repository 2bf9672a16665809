// Package production estimates annual and monthly AC energy output for
// a sized system. The primary path asks an external per-location
// irradiance model; any failure there falls through to a deterministic
// regional-yield fallback, so callers never need an error path for the
// external service being down.
package production

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solarquote/internal/logging"
)

// PitchClass is the coarse roof tilt classification carried to the
// irradiance model.
type PitchClass string

const (
	PitchFlat   PitchClass = "flat"
	PitchLow    PitchClass = "low"
	PitchMedium PitchClass = "medium"
	PitchSteep  PitchClass = "steep"
)

// ShadingLevel scales the fallback estimate for site shading.
type ShadingLevel string

const (
	ShadingNone     ShadingLevel = "none"
	ShadingLight    ShadingLevel = "light"
	ShadingModerate ShadingLevel = "moderate"
	ShadingHeavy    ShadingLevel = "heavy"
)

// Multiplier returns the production multiplier for a shading level.
// Unknown levels behave as unshaded.
func (s ShadingLevel) Multiplier() float64 {
	switch s {
	case ShadingLight:
		return 0.9
	case ShadingModerate:
		return 0.75
	case ShadingHeavy:
		return 0.5
	default:
		return 1.0
	}
}

// Request carries everything the irradiance model needs.
type Request struct {
	Lat        float64      `json:"lat"`
	Lng        float64      `json:"lng"`
	SystemKw   float64      `json:"system_kw"`
	Pitch      PitchClass   `json:"pitch"`
	Region     string       `json:"region"`
	AzimuthDeg float64      `json:"azimuth_deg"`
	Shading    ShadingLevel `json:"shading"`
}

// Estimate is the production model output. Energy values are integer
// kWh; precision below a kWh is noise at this scale.
type Estimate struct {
	AnnualKwh      int     `json:"annual_kwh"`
	MonthlyKwh     [12]int `json:"monthly_kwh"`
	CapacityFactor float64 `json:"capacity_factor"`

	// Source records which path produced the numbers (model id or
	// "fallback").
	Source string `json:"source"`
}

// Model is the external irradiance collaborator.
type Model interface {
	// Name identifies the model in logs and estimate output.
	Name() string

	// Estimate returns production for the request or an error; the
	// Estimator treats any error as a signal to fall back.
	Estimate(ctx context.Context, req Request) (Estimate, error)
}

// Estimator wraps a Model with the deterministic fallback and a bounded
// timeout. A nil model means fallback-only operation.
type Estimator struct {
	model   Model
	timeout time.Duration
}

// NewEstimator creates an estimator. timeout bounds each model call;
// zero means 5 seconds.
func NewEstimator(model Model, timeout time.Duration) *Estimator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Estimator{model: model, timeout: timeout}
}

// Estimate produces the production estimate for a request. It never
// returns an error: model failures are logged and recovered via the
// fallback.
func (e *Estimator) Estimate(ctx context.Context, req Request) Estimate {
	if req.SystemKw <= 0 {
		return Estimate{Source: sourceFallback}
	}

	if e.model != nil {
		modelCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		est, err := e.model.Estimate(modelCtx, req)
		if err == nil && est.AnnualKwh > 0 {
			est.Source = e.model.Name()
			return est
		}
		logging.Warn("irradiance model unavailable, using fallback estimate",
			zap.String("model", e.model.Name()),
			zap.String("region", req.Region),
			zap.Error(err))
	}

	return Fallback(req)
}
