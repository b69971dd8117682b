package repository

import (
	"context"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	pkgkafka "TrendPull/pkg/kafka"
)

// KafkaResultPublisher emits a run-summary event keyed by symbol, so per-symbol
// ordering holds across consumers.
type KafkaResultPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaResultPublisher(producer *pkgkafka.Producer, topic string) repository.ResultPublisher {
	return &KafkaResultPublisher{producer: producer, topic: topic}
}

func (p *KafkaResultPublisher) PublishRun(ctx context.Context, runID string, report *models.Report) error {
	return p.producer.Publish(ctx, p.topic, []byte(report.Symbol), map[string]interface{}{
		"run_id":       runID,
		"symbol":       report.Symbol,
		"report_start": report.ReportStart.Format("2006-01-02"),
		"report_end":   report.ReportEnd.Format("2006-01-02"),
		"kpi_strategy": report.Strategy,
		"kpi_buyhold":  report.Benchmark,
	})
}

func (p *KafkaResultPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
