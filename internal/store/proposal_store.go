// roof-mri-backend/internal/store/proposal_store.go

// Package store — слой хранения предложений поверх GORM.
// Все переходы жизненного цикла выполняются условными UPDATE ... WHERE
// с проверкой RowsAffected: это единственный механизм защиты от гонок,
// никаких блокировок в памяти.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/adam1capps/roof-mri-backend/models"
)

var (
	// ErrNotFound — предложение с таким id не существует.
	ErrNotFound = errors.New("proposal not found")
	// ErrDuplicateID — коллизия первичного ключа при вставке.
	// Генератор токенов делает ее практически недостижимой; вызывающий
	// код должен повторить вставку со свежим id.
	ErrDuplicateID = errors.New("proposal id already exists")
)

type ProposalStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *ProposalStore {
	return &ProposalStore{db: db}
}

// Insert сохраняет новое предложение.
func (s *ProposalStore) Insert(ctx context.Context, p *models.Proposal) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateID
	}
	return err
}

// GetByID возвращает предложение или ErrNotFound.
func (s *ProposalStore) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	var p models.Proposal
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// conditionalUpdate применяет patch только если строка сейчас удовлетворяет
// условию guard. Возвращает false, когда строка не существует или условие
// не выполнено — различать эти случаи должен вызывающий код повторным чтением.
func (s *ProposalStore) conditionalUpdate(ctx context.Context, id, guard string, guardArg interface{}, patch map[string]interface{}) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("id = ?", id).
		Where(guard, guardArg).
		Updates(patch)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkSigned переводит предложение в статус signed.
// Под условием status <> signed выиграть может только один из
// конкурирующих запросов; остальным вернется false.
func (s *ProposalStore) MarkSigned(ctx context.Context, id, signatureName, signatureData string, signedAt time.Time) (bool, error) {
	return s.conditionalUpdate(ctx, id, "status <> ?", models.StatusSigned, map[string]interface{}{
		"status":         models.StatusSigned,
		"signature_name": signatureName,
		"signature_data": signatureData,
		"signed_at":      signedAt,
	})
}

// MarkPaid фиксирует оплату и id платежной сессии. Повторное подтверждение
// того же события упирается в условие payment_status <> paid и превращается
// в no-op, так что session id записывается не более одного раза.
func (s *ProposalStore) MarkPaid(ctx context.Context, id, sessionID string) (bool, error) {
	return s.conditionalUpdate(ctx, id, "payment_status <> ?", models.PaymentPaid, map[string]interface{}{
		"payment_status":    models.PaymentPaid,
		"stripe_session_id": sessionID,
	})
}

// IncrementOpenCount атомарно увеличивает счетчик открытий и при первом
// просмотре выставляет opened_at. Инкремент выражением open_count + 1
// выполняется на стороне БД, поэтому параллельные просмотры не теряются.
func (s *ProposalStore) IncrementOpenCount(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Proposal{}).
			Where("id = ?", id).
			UpdateColumn("open_count", gorm.Expr("open_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Proposal{}).
			Where("id = ? AND opened_at IS NULL", id).
			UpdateColumn("opened_at", time.Now().UTC()).Error
	})
}

// List возвращает страницу кратких проекций, новые сверху, и общее число строк.
func (s *ProposalStore) List(ctx context.Context, limit, offset int) ([]models.ProposalSummary, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Proposal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProposalSummary
	err := s.db.WithContext(ctx).Model(&models.Proposal{}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListAll возвращает все предложения целиком, новые сверху. Используется
// выгрузкой в Excel; объемы (десятки тысяч строк) это позволяют.
func (s *ProposalStore) ListAll(ctx context.Context) ([]models.Proposal, error) {
	var rows []models.Proposal
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
