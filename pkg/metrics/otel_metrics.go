package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter

	// 订单相关指标
	OrdersPlacedTotal    metric.Int64Counter
	OrdersCompletedTotal metric.Int64Counter
	OrdersRejectedTotal  metric.Int64Counter
	OrderGrandTotal      metric.Float64Histogram

	// 积分相关指标
	PointsAwardedTotal  metric.Int64Counter
	PointsRedeemedTotal metric.Int64Counter

	// 短信相关指标
	SMSSentTotal    metric.Int64Counter
	SMSSendDuration metric.Float64Histogram
}

var (
	metrics *OTelMetrics
	meter   = otel.Meter("steamsbury")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerDuration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal, err = meter.Int64Counter(
		"orders.placed.total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return err
	}

	metrics.OrdersCompletedTotal, err = meter.Int64Counter(
		"orders.completed.total",
		metric.WithDescription("Total number of orders completed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return err
	}

	metrics.OrdersRejectedTotal, err = meter.Int64Counter(
		"orders.rejected.total",
		metric.WithDescription("Total number of orders rejected"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return err
	}

	metrics.OrderGrandTotal, err = meter.Float64Histogram(
		"orders.grand_total",
		metric.WithDescription("Order grand total amount"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return err
	}

	metrics.PointsAwardedTotal, err = meter.Int64Counter(
		"points.awarded.total",
		metric.WithDescription("Total loyalty points awarded"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return err
	}

	metrics.PointsRedeemedTotal, err = meter.Int64Counter(
		"points.redeemed.total",
		metric.WithDescription("Total loyalty points redeemed"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSentTotal, err = meter.Int64Counter(
		"sms.sent.total",
		metric.WithDescription("Total number of SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSendDuration, err = meter.Float64Histogram(
		"sms.send.duration",
		metric.WithDescription("Time spent sending SMS"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordOrderPlaced 记录下单
func RecordOrderPlaced(ctx context.Context, orderType string, grandTotal float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("order_type", orderType))
	m.OrdersPlacedTotal.Add(ctx, 1, attrs)
	m.OrderGrandTotal.Record(ctx, grandTotal, attrs)
}

// RecordOrderCompleted 记录订单完成
func RecordOrderCompleted(ctx context.Context, orderType string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.OrdersCompletedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("order_type", orderType)))
}

// RecordOrderRejected 记录拒单
func RecordOrderRejected(ctx context.Context, reason string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.OrdersRejectedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordPointsAwarded 记录积分发放
func RecordPointsAwarded(ctx context.Context, kind string, points int64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.PointsAwardedTotal.Add(ctx, points, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordPointsRedeemed 记录积分抵扣
func RecordPointsRedeemed(ctx context.Context, points int64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.PointsRedeemedTotal.Add(ctx, points)
}

// RecordSMSSent 记录短信发送结果
func RecordSMSSent(ctx context.Context, template, provider, status string, duration float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("template", template),
		attribute.String("provider", provider),
		attribute.String("status", status),
	}
	m.SMSSentTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.SMSSendDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("provider", provider),
	))
}
