package production

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"solarquote/internal/errors"
)

// HTTPModel queries a hosted irradiance service. This is the only
// network-bound operation in the estimation core; the Estimator bounds
// it with a timeout and absorbs every failure.
type HTTPModel struct {
	endpoint string
	client   *http.Client
}

// NewHTTPModel creates a model against the given endpoint. The client
// carries no timeout of its own; the per-call context supplies it.
func NewHTTPModel(endpoint string) *HTTPModel {
	return &HTTPModel{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Name identifies the model in logs and estimate output.
func (m *HTTPModel) Name() string {
	return "irradiance-api"
}

// wire shape of the irradiance service response.
type irradianceResponse struct {
	AnnualKwh      int     `json:"annualProductionKwh"`
	MonthlyKwh     []int   `json:"monthlyProductionKwh"`
	CapacityFactor float64 `json:"capacityFactor"`
}

// Estimate performs the lookup. Any transport, status, or shape problem
// is returned as an error for the Estimator to recover from.
func (m *HTTPModel) Estimate(ctx context.Context, req Request) (Estimate, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(req.Lat, 'f', 6, 64))
	q.Set("lng", strconv.FormatFloat(req.Lng, 'f', 6, 64))
	q.Set("system_kw", strconv.FormatFloat(req.SystemKw, 'f', 3, 64))
	q.Set("pitch", string(req.Pitch))
	q.Set("region", req.Region)
	q.Set("azimuth", strconv.FormatFloat(req.AzimuthDeg, 'f', 0, 64))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Estimate{}, errors.External("building irradiance request", err)
	}

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return Estimate{}, errors.External("irradiance lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Estimate{}, errors.External(
			fmt.Sprintf("irradiance service returned %d", resp.StatusCode), nil)
	}

	var body irradianceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Estimate{}, errors.External("decoding irradiance response", err)
	}
	if len(body.MonthlyKwh) != 12 {
		return Estimate{}, errors.External(
			fmt.Sprintf("irradiance response has %d monthly entries", len(body.MonthlyKwh)), nil)
	}

	est := Estimate{
		AnnualKwh:      body.AnnualKwh,
		CapacityFactor: body.CapacityFactor,
	}
	copy(est.MonthlyKwh[:], body.MonthlyKwh)
	return est, nil
}
