package executionlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NeuralTrust/toolhub/pkg/domain/execution"
	"github.com/NeuralTrust/toolhub/pkg/infra/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const redisKeyPattern = "toolhub:executions:%s"

// LogSink writes one structured entry per invocation.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, entry execution.Log) error {
	fields := logrus.Fields{
		"tool_id":     entry.ToolID,
		"tool_name":   entry.ToolName,
		"server_id":   entry.ServerID,
		"server_name": entry.ServerName,
		"arguments":   entry.Arguments,
		"status":      entry.Status,
		"duration_ms": entry.DurationMS,
	}
	if entry.Status == execution.StatusError {
		s.logger.WithFields(fields).WithField("error", entry.Error).Warn("tool execution failed")
		return nil
	}
	s.logger.WithFields(fields).Info("tool executed")
	return nil
}

type MetricsSink struct{}

func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

func (MetricsSink) Record(_ context.Context, entry execution.Log) error {
	prometheus.ToolExecutionsTotal.WithLabelValues(entry.ServerName, entry.ToolName, string(entry.Status)).Inc()
	prometheus.ToolExecutionDuration.WithLabelValues(entry.ServerName, entry.ToolName).Observe(entry.DurationMS)
	return nil
}

// RedisSink keeps the most recent invocations of each server in a capped list.
type RedisSink struct {
	client  redis.Cmdable
	maxSize int64
}

func NewRedisSink(client redis.Cmdable, maxSize int64) *RedisSink {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &RedisSink{client: client, maxSize: maxSize}
}

func Key(serverID string) string {
	return fmt.Sprintf(redisKeyPattern, serverID)
}

func (s *RedisSink) Record(ctx context.Context, entry execution.Log) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode execution log: %w", err)
	}
	key := Key(entry.ServerID)
	// push and trim together so the list never outgrows maxSize
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, s.maxSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push execution log: %w", err)
	}
	return nil
}

// MultiSink fans an entry out to every sink. Sink failures are logged and
// never reach the caller.
type MultiSink struct {
	sinks  []execution.Sink
	logger *logrus.Logger
}

func NewMultiSink(logger *logrus.Logger, sinks ...execution.Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

func (m *MultiSink) Record(ctx context.Context, entry execution.Log) error {
	for _, sink := range m.sinks {
		if err := sink.Record(ctx, entry); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"sink":      fmt.Sprintf("%T", sink),
				"tool_name": entry.ToolName,
			}).Error("execution log sink failed")
		}
	}
	return nil
}
