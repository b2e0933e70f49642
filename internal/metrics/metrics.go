// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts link-layer frames read from the source
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_frames_total",
			Help: "Total number of frames read from the capture source",
		},
		[]string{"source"},
	)

	// FramesSkippedTotal counts frames that never reached the DCCP decoder
	FramesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_frames_skipped_total",
			Help: "Total number of frames skipped before DCCP decoding",
		},
		[]string{"source", "reason"},
	)

	// DatagramsTotal counts DCCP datagrams rendered, valid or not
	DatagramsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_datagrams_total",
			Help: "Total number of DCCP datagrams processed",
		},
		[]string{"source"},
	)

	// DatagramsInvalidTotal counts datagrams that rendered as invalid
	DatagramsInvalidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_datagrams_invalid_total",
			Help: "Total number of DCCP datagrams that failed to decode",
		},
		[]string{"source", "reason"},
	)

	// ChecksumMismatchTotal counts datagrams whose checksum verification failed
	ChecksumMismatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_checksum_mismatch_total",
			Help: "Total number of DCCP datagrams with a wrong checksum",
		},
		[]string{"source"},
	)

	// DecodeSeconds measures per-datagram decode and render latency
	DecodeSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "strix_decode_seconds",
			Help:    "Latency of decoding and rendering one datagram in seconds",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 16), // 1µs to ~32ms
		},
	)
)

// Skip reasons for FramesSkippedTotal.
const (
	SkipReasonNotIP      = "not_ip"
	SkipReasonNotDCCP    = "not_dccp"
	SkipReasonFrameError = "frame_error"
)
