package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes operational metrics to CloudWatch.
// Publishing is best-effort: a metrics failure never fails the operation
// being measured.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	enabled   bool
	logger    *zap.Logger
}

// NewMetrics creates a new metrics recorder. When client is nil or enabled
// is false, all recording calls are no-ops.
func NewMetrics(client *cloudwatch.Client, namespace string, enabled bool, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		enabled:   enabled && client != nil,
		logger:    logger,
	}
}

// RecordOperation records a count and latency datum for a named operation
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}

	dimensions := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("OperationCount"),
				Dimensions: dimensions,
				Unit:       types.StandardUnitCount,
				Value:      aws.Float64(1),
			},
			{
				MetricName: aws.String("OperationLatency"),
				Dimensions: dimensions,
				Unit:       types.StandardUnitMilliseconds,
				Value:      aws.Float64(float64(duration.Milliseconds())),
			},
		},
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to publish metrics",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
