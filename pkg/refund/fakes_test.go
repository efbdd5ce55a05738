package refund_test

import (
	"context"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/pkg/payment"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// fakeUnitOfWork is an in-memory stand-in for the gorm-backed unit of work.
// Transactions are tracked but not isolated; tests assert on call outcomes,
// not on rollback semantics.
type fakeUnitOfWork struct {
	orders  map[uuid.UUID]*entity.Order
	ledgers map[uuid.UUID]*entity.RefundLedgerEntry
	records []*entity.RefundRecord

	ledgerCommitErr error
	recordCreateErr error
	commitErr       error

	began      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork(orders ...*entity.Order) *fakeUnitOfWork {
	u := &fakeUnitOfWork{
		orders:  make(map[uuid.UUID]*entity.Order),
		ledgers: make(map[uuid.UUID]*entity.RefundLedgerEntry),
	}
	for _, o := range orders {
		u.orders[o.ID] = o
	}
	return u
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began++; return nil }

func (u *fakeUnitOfWork) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error { u.rolledBack++; return nil }

func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository { return &fakeOrderRepo{u} }
func (u *fakeUnitOfWork) CartRepository() contract.CartRepository   { return nil }
func (u *fakeUnitOfWork) MergeMarkerRepository() contract.MergeMarkerRepository {
	return nil
}
func (u *fakeUnitOfWork) RefundLedgerRepository() contract.RefundLedgerRepository {
	return &fakeLedgerRepo{u}
}
func (u *fakeUnitOfWork) RefundRecordRepository() contract.RefundRecordRepository {
	return &fakeRecordRepo{u}
}

func (u *fakeUnitOfWork) unreconciledRecords() []*entity.RefundRecord {
	var out []*entity.RefundRecord
	for _, r := range u.records {
		if !r.Reconciled {
			out = append(out, r)
		}
	}
	return out
}

type fakeOrderRepo struct{ u *fakeUnitOfWork }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.u.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.u.orders[byID.ID], nil
		}
	}
	return nil, nil
}

type fakeLedgerRepo struct{ u *fakeUnitOfWork }

func (r *fakeLedgerRepo) FindByOrder(ctx context.Context, orderId uuid.UUID) (*entity.RefundLedgerEntry, error) {
	return r.u.ledgers[orderId], nil
}

func (r *fakeLedgerRepo) CommitConditional(ctx context.Context, entry *entity.RefundLedgerEntry, expectedTotalCents int64) error {
	if r.u.ledgerCommitErr != nil {
		return r.u.ledgerCommitErr
	}
	var stored int64
	if cur, ok := r.u.ledgers[entry.OrderID]; ok {
		stored = cur.RefundedTotalCents
	}
	if stored != expectedTotalCents {
		return contract.ErrStaleLedger
	}
	cp := *entry
	cp.UpdatedAt = time.Now()
	r.u.ledgers[entry.OrderID] = &cp
	return nil
}

type fakeRecordRepo struct{ u *fakeUnitOfWork }

func (r *fakeRecordRepo) Create(ctx context.Context, record *entity.RefundRecord) error {
	if r.u.recordCreateErr != nil {
		return r.u.recordCreateErr
	}
	record.CreatedAt = time.Now()
	r.u.records = append(r.u.records, record)
	return nil
}

func (r *fakeRecordRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundRecord, error) {
	if len(r.u.records) == 0 {
		return nil, nil
	}
	return r.u.records[0], nil
}

func (r *fakeRecordRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundRecord, error) {
	return r.u.records, nil
}

// fakeProcessor scripts the payment processor's refund response.
type fakeProcessor struct {
	result *payment.RefundResult
	err    error

	calls       int
	lastAmount  int64
	lastPayment string
}

func (p *fakeProcessor) CreateRefund(ctx context.Context, paymentRef string, amountCents int64, reason string) (*payment.RefundResult, error) {
	p.calls++
	p.lastAmount = amountCents
	p.lastPayment = paymentRef
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

// capturingPublisher records watermill alert publishes by topic.
type capturingPublisher struct {
	published map[string][]*message.Message
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{published: make(map[string][]*message.Message)}
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
