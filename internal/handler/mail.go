package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/workflow"
)

// notifyShiftsCreated queues a summary e-mail of a shift batch. It only logs
// failures: the shifts already exist and the page must report them.
func (h *Handler) notifyShiftsCreated(ctx context.Context, user *domain.User, title string, dates []string, batchErr *workflow.BatchError) {
	if h.mailChannel == nil || user.EmailAddress() == "" {
		return
	}

	settings, err := h.store.NotificationSettings(ctx, user.ID)
	if err != nil {
		slog.Error("failed to load notification settings", "user", user.ID, "error", err)
		return
	}
	if !settings.ShiftChanges {
		return
	}

	data := domain.ShiftsCreatedMailData{
		Name:  user.Name(),
		Title: title,
		Dates: dates,
		Total: len(dates),
	}
	mailMessage := domain.MailMessage{
		Type: domain.MailShiftsCreated,
		To:   user.EmailAddress(),
	}
	if batchErr != nil {
		data.Dates = dates[:len(batchErr.CreatedIDs)]
		data.FailedDate = batchErr.Date
		data.Error = batchErr.Err.Error()
		mailMessage.Type = domain.MailShiftsPartiallyCreated
	}
	mailMessage.Data = data

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("failed to encode mail message", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("failed to publish mail message", "type", mailMessage.Type, "error", err)
	}
}
