package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JuborajSujon/mfs-backend/internal/core/notifications"
)

const maxAttempts = 5

// StartWebhookWorker polls the webhook_jobs queue and delivers
// settlement notifications. FOR UPDATE SKIP LOCKED keeps multiple
// instances from grabbing the same job.
func StartWebhookWorker(db *pgxpool.Pool, secret string) {
	go func() {
		slog.Info("webhook worker started")
		for {
			processJobs(db, secret)
			time.Sleep(5 * time.Second)
		}
	}()
}

func processJobs(db *pgxpool.Pool, secret string) {
	ctx := context.Background()

	query := `
		SELECT id, url, payload, attempts
		FROM webhook_jobs
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var id string
	var url string
	var payloadBytes []byte
	var attempts int

	if err := db.QueryRow(ctx, query).Scan(&id, &url, &payloadBytes, &attempts); err != nil {
		return
	}

	var payload interface{}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		slog.Error("worker: failed to parse payload", "error", err, "job_id", id)
		db.Exec(ctx, `UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1`, id)
		return
	}

	slog.Info("worker: processing job", "url", url, "job_id", id)

	if sendErr := notifications.SendWebhook(url, payload, secret); sendErr != nil {
		slog.Error("worker: webhook failed", "error", sendErr, "attempts", attempts)
		nextRun := time.Now().Add(time.Duration(attempts*10+10) * time.Second)

		if attempts >= maxAttempts {
			db.Exec(ctx, `UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1`, id)
			slog.Error("worker: job marked as failed, max attempts reached", "job_id", id)
		} else {
			db.Exec(ctx, `UPDATE webhook_jobs SET status = 'PENDING', attempts = attempts + 1, next_run_at = $2 WHERE id = $1`, id, nextRun)
			slog.Info("worker: scheduled retry", "next_run", nextRun)
		}
		return
	}

	slog.Info("worker: webhook delivered", "job_id", id)
	db.Exec(ctx, `UPDATE webhook_jobs SET status = 'COMPLETED' WHERE id = $1`, id)
}
