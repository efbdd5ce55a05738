package service

import (
	"context"
	"encoding/json"
	"log"

	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/pkg/refund"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IReconcileService drains unreconciled-refund alerts into the audit log and
// the operations inbox. It never retries the refund itself; money questions
// are resolved by a human against the processor dashboard.
type IReconcileService interface {
	Consume(ctx context.Context) error
}

type reconcileService struct {
	pubSub   *gochannel.GoChannel
	auditLog logger.ILogger
	mailer   mailer.IEmailService
}

func NewReconcileService(pubSub *gochannel.GoChannel, auditLog logger.ILogger, emailService mailer.IEmailService) IReconcileService {
	return &reconcileService{
		pubSub:   pubSub,
		auditLog: auditLog,
		mailer:   emailService,
	}
}

func (rs *reconcileService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, refund.TopicRefundUnreconciled)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(msg)
		}
	}()

	return nil
}

func (rs *reconcileService) processMessage(msg *message.Message) {
	var alert refund.UnreconciledAlert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		log.Printf("[ERROR] Failed to unmarshal unreconciled alert: %v", err)
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	rs.auditLog.Error("RECONCILE", "Unreconciled refund requires manual review", map[string]interface{}{
		"orderId":           alert.OrderID.String(),
		"recordId":          alert.RecordID.String(),
		"processorRefundId": alert.ProcessorRefundID,
		"amountCents":       alert.AmountCents,
		"cause":             alert.Cause,
	})

	if rs.mailer != nil {
		if err := rs.mailer.SendUnreconciledRefundAlert(
			alert.OrderID.String(),
			alert.RecordID.String(),
			alert.ProcessorRefundID,
			alert.AmountCents,
		); err != nil {
			// The audit log entry above already preserves the alert.
			log.Printf("[ERROR] Failed to email unreconciled refund alert for order %s: %v", alert.OrderID, err)
		}
	}

	msg.Ack()
}
