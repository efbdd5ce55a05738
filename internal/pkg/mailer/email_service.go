package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendUnreconciledRefundAlert(orderId, recordId, processorRefundId string, amountCents int64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	opsEmail    string
}

func NewEmailService(host string, port int, username, password, senderEmail, opsEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		opsEmail:    opsEmail,
	}
}

// SendUnreconciledRefundAlert notifies the operations inbox that a refund
// reached the payment processor without a matching ledger commit and needs
// manual reconciliation.
func (s *emailService) SendUnreconciledRefundAlert(orderId, recordId, processorRefundId string, amountCents int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.opsEmail)
	m.SetHeader("Subject", fmt.Sprintf("[ACTION REQUIRED] Unreconciled refund on order %s", orderId))

	processorLine := processorRefundId
	if processorLine == "" {
		processorLine = "(unknown - processor outcome unconfirmed)"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Unreconciled refund</h2>
			<p>A refund reached the payment processor but was not committed to the ledger.</p>
			<ul>
				<li>Order: <b>%s</b></li>
				<li>Refund record: <b>%s</b></li>
				<li>Processor refund id: <b>%s</b></li>
				<li>Amount: <b>%d cents</b></li>
			</ul>
			<p>Do NOT re-issue the refund before verifying the processor side; a blind retry double-refunds the customer.</p>
		</div>
	`, orderId, recordId, processorLine, amountCents)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send unreconciled refund alert for order %s: %v\n", orderId, err)
		return err
	}

	fmt.Printf("[MAILER] Unreconciled refund alert sent for order %s\n", orderId)
	return nil
}
