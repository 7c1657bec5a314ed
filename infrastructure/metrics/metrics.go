package metrics

import (
	"net/http"
	"time"

	"comment-insight/domain/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	VideosAnalyzed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "videos_analyzed_total",
		Help: "Total videos analysed and stored",
	})
	AnalysisFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "video_analysis_failures_total",
		Help: "Total video analyses that returned an error",
	})
	CommentsClassified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comments_classified_total",
		Help: "Total comments classified, by sentiment label",
	}, []string{"label"})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "video_analysis_duration_seconds",
		Help:    "Wall time of a single video analysis",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})
	BatchRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batch_runs_total",
		Help: "Total batch analyses started",
	})
)

func init() {
	prometheus.MustRegister(VideosAnalyzed, AnalysisFailures, CommentsClassified, AnalysisDuration, BatchRuns)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder feeds the analysis use case into the Prometheus collectors
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

// ObserveAnalysis records one finished analysis
func (Recorder) ObserveAnalysis(start time.Time, err error) {
	AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		AnalysisFailures.Inc()
		return
	}
	VideosAnalyzed.Inc()
}

func (Recorder) CountComment(label model.SentimentLabel) {
	CommentsClassified.WithLabelValues(string(label)).Inc()
}

func (Recorder) CountBatchRun() { BatchRuns.Inc() }
