// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordSubscription()
	RecordContactSubmission()
	RecordNewsletterDispatch(recipients int)
	RecordChatRequest()
	RecordChatLatency(duration time.Duration)
	RecordNewsFetchFailure(sourceURL string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus         *prometheus.CounterVec
	subscriptions      prometheus.Counter
	contactSubmissions prometheus.Counter
	newsletterSent     prometheus.Counter
	newsletterBCC      prometheus.Counter
	chatRequests       prometheus.Counter
	chatLatency        prometheus.Histogram
	newsFetchFail      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		subscriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_newsletter_subscriptions_total",
			Help: "ニュースレター購読登録の合計数",
		}),
		contactSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_contact_submissions_total",
			Help: "お問い合わせフォーム送信の合計数",
		}),
		newsletterSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_newsletter_dispatches_total",
			Help: "ニュースレター配信の合計数",
		}),
		newsletterBCC: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_newsletter_recipients_total",
			Help: "ニュースレター配信先アドレスの合計数",
		}),
		chatRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_chat_requests_total",
			Help: "チャット補完リクエストの合計数",
		}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexus_chat_latency_seconds",
			Help:    "チャット補完のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		newsFetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_news_fetch_fail_total",
			Help: "ニュースフィードフェッチ失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.subscriptions,
		c.contactSubmissions,
		c.newsletterSent,
		c.newsletterBCC,
		c.chatRequests,
		c.chatLatency,
		c.newsFetchFail,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSubscription はニュースレター購読登録を記録する。
func (c *Collector) RecordSubscription() {
	c.subscriptions.Inc()
}

// RecordContactSubmission はお問い合わせフォーム送信を記録する。
func (c *Collector) RecordContactSubmission() {
	c.contactSubmissions.Inc()
}

// RecordNewsletterDispatch はニュースレター配信と配信先数を記録する。
func (c *Collector) RecordNewsletterDispatch(recipients int) {
	c.newsletterSent.Inc()
	c.newsletterBCC.Add(float64(recipients))
}

// RecordChatRequest はチャット補完リクエストを記録する。
func (c *Collector) RecordChatRequest() {
	c.chatRequests.Inc()
}

// RecordChatLatency はチャット補完のレイテンシを記録する。
func (c *Collector) RecordChatLatency(duration time.Duration) {
	c.chatLatency.Observe(duration.Seconds())
}

// RecordNewsFetchFailure はニュースフィードのフェッチ失敗を記録する。
func (c *Collector) RecordNewsFetchFailure(sourceURL string) {
	c.newsFetchFail.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
