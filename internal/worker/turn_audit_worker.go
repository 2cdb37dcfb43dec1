package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"inchat/internal/model"
	"inchat/internal/repository"
)

// TurnAuditWorker drains the turn audit queue and persists TurnLog rows.
// Audit writes happen here, off the request path.
type TurnAuditWorker struct {
	conn      *amqp.Connection
	repo      *repository.TurnLogRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTurnAuditWorker(conn *amqp.Connection, repo *repository.TurnLogRepository, queueName string) *TurnAuditWorker {
	return &TurnAuditWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *TurnAuditWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var entry model.TurnLog
				if err := json.Unmarshal(d.Body, &entry); err != nil {
					log.Error().Err(err).Msg("worker decode turn log failed")
					_ = d.Nack(false, false)
					continue
				}
				entry.ID = 0

				if err := w.repo.Create(&entry); err != nil {
					log.Error().Err(err).Uint("session_id", entry.SessionID).Msg("worker persist turn log failed")
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *TurnAuditWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
