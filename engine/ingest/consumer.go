package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/windlabs/wind-engine/pkg/natsutil"
)

const (
	// IndexSubject is the NATS subject for indexing jobs.
	IndexSubject = "wind.index"
	// DLQSubject receives jobs that kept failing.
	DLQSubject = "wind.index.dlq"
	// MaxRetries before a job is sent to the DLQ.
	MaxRetries = 3

	retryHeader = "X-Retry-Count"
)

// IndexJob asks the worker to (re)index one document.
type IndexJob struct {
	DocumentID string `json:"document_id"`
}

// dlqMessage wraps a failed job with its final error.
type dlqMessage struct {
	Job     IndexJob `json:"job"`
	Error   string   `json:"error"`
	Retries int      `json:"retries"`
}

// Enqueue publishes an indexing job for the given document.
func Enqueue(ctx context.Context, nc *nats.Conn, documentID string) error {
	return natsutil.Publish(ctx, nc, IndexSubject, IndexJob{DocumentID: documentID})
}

// StartConsumer subscribes the indexer to the indexing subject. Failed jobs
// are re-published with an incremented retry header and land in the DLQ after
// MaxRetries. The consumer itself never retries synchronously.
func StartConsumer(nc *nats.Conn, ix *Indexer, log *slog.Logger) (*nats.Subscription, error) {
	if log == nil {
		log = slog.Default()
	}

	return nc.Subscribe(IndexSubject, func(msg *nats.Msg) {
		var job IndexJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			log.Error("index consumer: unmarshal failed", "error", err)
			return
		}

		ctx := context.Background()

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get(retryHeader); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}

		if err := ix.Process(ctx, job.DocumentID); err != nil {
			retries++
			log.Error("index consumer: pipeline failed",
				"document_id", job.DocumentID,
				"error", err,
				"retry", retries,
			)

			if retries >= MaxRetries {
				dlq := dlqMessage{Job: job, Error: err.Error(), Retries: retries}
				if err := natsutil.Publish(ctx, nc, DLQSubject, dlq); err != nil {
					log.Error("index consumer: DLQ publish failed", "error", err)
				}
				return
			}

			retryMsg := nats.NewMsg(IndexSubject)
			retryMsg.Data = msg.Data
			retryMsg.Header = nats.Header{}
			retryMsg.Header.Set(retryHeader, fmt.Sprintf("%d", retries))
			if err := nc.PublishMsg(retryMsg); err != nil {
				log.Error("index consumer: retry publish failed", "error", err)
			}
		}
	})
}
