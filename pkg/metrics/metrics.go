// Package metrics 提供Prometheus指标定义与辅助函数
//
// 指标分组：
// 1. HTTP请求指标（请求数、耗时、进行中请求数）
// 2. 借阅业务指标（借出、归还、失败原因、滞纳金）
// 3. 预约业务指标（创建、晋升为可取书）
// 4. 通知指标（按渠道统计成功/失败）
// 5. 熔断器指标
//
// 暴露方式：main.go中注册 GET /metrics → promhttp.Handler()
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// ========== HTTP指标 ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 借阅指标 ==========

	LoansCreatedTotal  prometheus.Counter
	LoansReturnedTotal prometheus.Counter
	// LoansFailedTotal 按失败原因统计（max_loans / unavailable / not_found / internal）
	LoansFailedTotal *prometheus.CounterVec
	// LateFeesTotal 累计滞纳金（分）
	LateFeesTotal         prometheus.Counter
	LoanOperationDuration *prometheus.HistogramVec

	// ========== 预约指标 ==========

	ReservationsCreatedTotal  prometheus.Counter
	ReservationsPromotedTotal prometheus.Counter

	// ========== 通知 / 审计 ==========

	NotificationsTotal      *prometheus.CounterVec // labels: channel, result
	SideEffectFailuresTotal *prometheus.CounterVec // labels: kind


	// ========== 熔断器 ==========

	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec

	// ========== 消息队列 ==========

	MessagesPublishedTotal *prometheus.CounterVec
	MessagesConsumedTotal  *prometheus.CounterVec
)

// InitMetrics 初始化所有指标（幂等，多次调用只注册一次）
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	LoansCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_loans_created_total",
			Help: "借出总数",
		},
	)

	LoansReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_loans_returned_total",
			Help: "归还总数",
		},
	)

	LoansFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_loans_failed_total",
			Help: "借阅操作失败总数",
		},
		[]string{"operation", "reason"},
	)

	LateFeesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_late_fees_cents_total",
			Help: "累计滞纳金（分）",
		},
	)

	LoanOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_loan_operation_duration_seconds",
			Help:    "借还操作耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	ReservationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_reservations_created_total",
			Help: "预约创建总数",
		},
	)

	ReservationsPromotedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_reservations_promoted_total",
			Help: "归还触发的预约晋升总数",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_notifications_total",
			Help: "通知发送总数",
		},
		[]string{"channel", "result"},
	)

	SideEffectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_side_effect_failures_total",
			Help: "被吞掉的副作用失败次数（历史、审计、通知）",
		},
		[]string{"kind"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// ========== 辅助函数 ==========
// 业务代码统一通过这些函数上报，未初始化时静默跳过（单元测试无需注册指标）

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	if counter == nil {
		return
	}
	counter.Add(v)
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置带标签的Gauge
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录带标签的Histogram
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
