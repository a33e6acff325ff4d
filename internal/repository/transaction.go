package repository

import (
	"context"
	"errors"
	"time"

	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("RECORD_NOT_FOUND")
var ErrRecordExisted = errors.New("RECORD_EXISTED")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

// StatusUpdate carries everything a reconciliation outcome may change on a
// record. Note is appended to the description, never replacing it.
type StatusUpdate struct {
	Status         model.TxStatus
	Note           string
	RefundRequired bool
	ExternalRef    *string
	LinkedEntityID *string
	LastError      *string
}

type LedgerQuery struct {
	UserID string
	Kind   model.TxKind
	Status model.TxStatus
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int
	Offset int
}

type TransactionRepository interface {
	Create(ctx context.Context, record *model.TransactionRecord) error
	GetByID(id int64) (*model.TransactionRecord, error)
	GetByIdempotencyKey(key string) (*model.TransactionRecord, error)
	UpdateFromPending(ctx context.Context, id int64, upd StatusUpdate) error
	MarkRefunded(ctx context.Context, id int64, note string) error
	Query(q LedgerQuery) ([]model.TransactionRecord, error)
	FindStalePending(updatedBefore time.Time, limit int) ([]model.TransactionRecord, error)
	FindRefundsToPublish(limit int) ([]model.TransactionRecord, error)
	MarkRefundPublished(ctx context.Context, id int64) error
}

type Transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &Transaction{db: db}
}

func (t *Transaction) Create(ctx context.Context, record *model.TransactionRecord) error {
	db := GetTx(ctx, t.db)
	err := db.Create(record).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrRecordExisted
	}

	return err
}

func (t *Transaction) GetByID(id int64) (*model.TransactionRecord, error) {
	var record model.TransactionRecord

	err := t.db.Where("id = ?", id).First(&record).Error
	if err == nil {
		return &record, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}

	return nil, err
}

func (t *Transaction) GetByIdempotencyKey(key string) (*model.TransactionRecord, error) {
	var record model.TransactionRecord

	err := t.db.Where("idempotency_key = ?", key).First(&record).Error
	if err == nil {
		return &record, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}

	return nil, err
}

// UpdateFromPending serializes concurrent finalization attempts on one
// record: only rows still PENDING match, so a retried webhook and a client
// poll cannot both move the record. Zero rows affected means the record is
// gone or already terminal; callers classify which.
func (t *Transaction) UpdateFromPending(ctx context.Context, id int64, upd StatusUpdate) error {
	db := GetTx(ctx, t.db)

	fields := map[string]interface{}{
		"status":          upd.Status,
		"refund_required": upd.RefundRequired,
		"updated_at":      time.Now(),
	}

	if upd.Note != "" {
		fields["description"] = gorm.Expr("CONCAT(description, ?)", " "+upd.Note)
	}

	if upd.ExternalRef != nil {
		fields["external_ref"] = *upd.ExternalRef
	}

	if upd.LinkedEntityID != nil {
		fields["linked_entity_id"] = *upd.LinkedEntityID
	}

	if upd.LastError != nil {
		fields["last_error"] = *upd.LastError
	}

	result := db.Model(&model.TransactionRecord{}).
		Where("id = ? AND status = ?", id, model.TxStatusPending).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (t *Transaction) MarkRefunded(ctx context.Context, id int64, note string) error {
	db := GetTx(ctx, t.db)

	result := db.Model(&model.TransactionRecord{}).
		Where("id = ? AND refund_required = ? AND refunded_at IS NULL", id, true).
		Updates(map[string]interface{}{
			"refunded_at": time.Now(),
			"description": gorm.Expr("CONCAT(description, ?)", " "+note),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (t *Transaction) Query(q LedgerQuery) ([]model.TransactionRecord, error) {
	db := t.db.Model(&model.TransactionRecord{})

	if q.UserID != "" {
		db = db.Where("user_id = ?", q.UserID)
	}

	if q.Kind != "" {
		db = db.Where("kind = ?", q.Kind)
	}

	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}

	if q.To != nil {
		db = db.Where("created_at <= ?", *q.To)
	}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"counterparty_name LIKE ? OR description LIKE ? OR external_ref LIKE ? OR CAST(amount AS CHAR) LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset)
	}

	var records []model.TransactionRecord
	err := db.Order("created_at DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FindStalePending picks up records that a crashed or timed-out submission
// left behind. Oldest first, so a record cannot starve behind newer churn.
func (t *Transaction) FindStalePending(updatedBefore time.Time, limit int) ([]model.TransactionRecord, error) {
	var records []model.TransactionRecord

	err := t.db.
		Where("status = ? AND updated_at <= ?", model.TxStatusPending, updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (t *Transaction) FindRefundsToPublish(limit int) ([]model.TransactionRecord, error) {
	var records []model.TransactionRecord

	err := t.db.
		Where("status = ? AND refund_required = ? AND refund_published = ? AND refunded_at IS NULL",
			model.TxStatusFailed, true, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (t *Transaction) MarkRefundPublished(ctx context.Context, id int64) error {
	db := GetTx(ctx, t.db)
	publishedAt := time.Now()

	return db.Model(&model.TransactionRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"refund_published":    true,
			"refund_published_at": publishedAt,
			"updated_at":          time.Now(),
		}).Error
}
