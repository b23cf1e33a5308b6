package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AuthMetrics holds the counters the auth core feeds for anomaly detection.
// Repeated replay detections on one subject are the signal that a refresh
// token was stolen.
type AuthMetrics struct {
	loginFailures     metric.Int64Counter
	refreshRejections metric.Int64Counter
	replayDetections  metric.Int64Counter
}

// NewAuthMetrics creates the auth counters on the global meter provider.
func NewAuthMetrics() (*AuthMetrics, error) {
	meter := Meter("auth")

	loginFailures, err := meter.Int64Counter("auth.login.failures",
		metric.WithDescription("Logins rejected with INVALID_CREDENTIALS"))
	if err != nil {
		return nil, err
	}
	refreshRejections, err := meter.Int64Counter("auth.refresh.rejections",
		metric.WithDescription("Refresh attempts rejected, by internal reason"))
	if err != nil {
		return nil, err
	}
	replayDetections, err := meter.Int64Counter("auth.refresh.replays",
		metric.WithDescription("Redemptions of already-rotated refresh tokens"))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		loginFailures:     loginFailures,
		refreshRejections: refreshRejections,
		replayDetections:  replayDetections,
	}, nil
}

// LoginFailure counts one rejected login.
func (m *AuthMetrics) LoginFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.loginFailures.Add(ctx, 1)
}

// RefreshRejected counts one rejected refresh with its internal reason.
// The reason stays server-side; the client saw only INVALID_REFRESH.
func (m *AuthMetrics) RefreshRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.refreshRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// ReplayDetected counts one redemption of an already-rotated token id.
func (m *AuthMetrics) ReplayDetected(ctx context.Context, ra string) {
	if m == nil {
		return
	}
	m.replayDetections.Add(ctx, 1, metric.WithAttributes(attribute.String("ra", ra)))
}
