package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
)

const defaultPushTimeout = 30 * time.Second

// PushClient writes gathered metrics to a VictoriaMetrics/Prometheus remote
// write endpoint.
type PushClient struct {
	url        string
	httpClient *http.Client
	job        string
}

// NewPushClient creates a client for the given base URL, e.g.
// "http://victoriametrics:8428". The job label is attached to every series.
func NewPushClient(baseURL, job string) *PushClient {
	return &PushClient{
		url:        baseURL + "/api/v1/write",
		httpClient: &http.Client{Timeout: defaultPushTimeout},
		job:        job,
	}
}

// Push gathers the registry and writes every sample to the remote endpoint.
func (c *PushClient) Push(ctx context.Context, m *Metrics) error {
	families, err := m.Registry().Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	now := time.Now().UnixMilli()
	var series []prompb.TimeSeries

	for _, family := range families {
		for _, metric := range family.Metric {
			labels := []prompb.Label{
				{Name: "__name__", Value: family.GetName()},
				{Name: "job", Value: c.job},
			}
			for _, pair := range metric.Label {
				labels = append(labels, prompb.Label{
					Name:  pair.GetName(),
					Value: pair.GetValue(),
				})
			}

			var value float64
			switch {
			case metric.Counter != nil:
				value = metric.Counter.GetValue()
			case metric.Gauge != nil:
				value = metric.Gauge.GetValue()
			case metric.Histogram != nil:
				// Export the sum; buckets stay local.
				value = metric.Histogram.GetSampleSum()
			default:
				continue
			}

			series = append(series, prompb.TimeSeries{
				Labels:  labels,
				Samples: []prompb.Sample{{Value: value, Timestamp: now}},
			})
		}
	}

	if len(series) == 0 {
		return nil
	}
	return c.write(ctx, series)
}

// write marshals, compresses and posts a remote write request.
func (c *PushClient) write(ctx context.Context, series []prompb.TimeSeries) error {
	req := &prompb.WriteRequest{Timeseries: series}

	data, err := proto.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling write request: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// StartPusher pushes the metrics on the given interval until ctx is done.
// Push failures are logged and retried on the next tick.
func StartPusher(ctx context.Context, client *PushClient, m *Metrics, interval time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pushCtx, cancel := context.WithTimeout(ctx, defaultPushTimeout)
				if err := client.Push(pushCtx, m); err != nil {
					logger.Warn("metrics push failed", "error", err)
				}
				cancel()
			}
		}
	}()
}
