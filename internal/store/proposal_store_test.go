package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adam1capps/roof-mri-backend/models"
)

// newTestStore поднимает хранилище поверх in-memory SQLite.
// Одно соединение на пул, иначе каждое соединение получит свою пустую БД.
func newTestStore(t *testing.T) *ProposalStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Proposal{}))
	return New(db)
}

func sampleProposal(id string) *models.Proposal {
	price := 4500.0
	return &models.Proposal{
		ID:            id,
		ContactName:   "Jane Doe",
		Company:       "Acme Roofing",
		Email:         "jane@acme.example",
		Tier:          models.TierProfessional,
		Tracks:        []string{"inspection", "estimating"},
		TotalPrice:    &price,
		Status:        models.StatusSent,
		PaymentStatus: models.PaymentUnpaid,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := sampleProposal("tok-roundtrip-1")
	require.NoError(t, s.Insert(ctx, p))

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.ContactName)
	assert.Equal(t, []string{"inspection", "estimating"}, got.Tracks)
	assert.Equal(t, models.StatusSent, got.Status)
	assert.Equal(t, models.PaymentUnpaid, got.PaymentStatus)
	assert.Zero(t, got.OpenCount)
	assert.Nil(t, got.OpenedAt)

	_, err = s.GetByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, sampleProposal("tok-dup")))
	err := s.Insert(ctx, sampleProposal("tok-dup"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMarkSignedOnlyOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, sampleProposal("tok-sign")))

	signedAt := time.Now().UTC()
	ok, err := s.MarkSigned(ctx, "tok-sign", "Jane Doe", "data:image/png;base64,AAAA", signedAt)
	require.NoError(t, err)
	assert.True(t, ok)

	// Повторная попытка упирается в guard status <> signed.
	ok, err = s.MarkSigned(ctx, "tok-sign", "Mallory", "data:image/png;base64,BBBB", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetByID(ctx, "tok-sign")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSigned, got.Status)
	assert.Equal(t, "Jane Doe", got.SignatureName)
	require.NotNil(t, got.SignedAt)

	ok, err = s.MarkSigned(ctx, "no-such-id", "X", "Y", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkSignedConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, sampleProposal("tok-race")))

	const attempts = 8
	wins := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := s.MarkSigned(ctx, "tok-race", fmt.Sprintf("signer-%d", n), "data", time.Now().UTC())
			require.NoError(t, err)
			wins <- ok
		}(i)
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won, "ровно один конкурирующий запрос должен выиграть переход")
}

func TestMarkPaidIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, sampleProposal("tok-pay")))

	ok, err := s.MarkPaid(ctx, "tok-pay", "cs_test_123")
	require.NoError(t, err)
	assert.True(t, ok)

	// То же событие второй раз — no-op, session id не перезаписывается.
	ok, err = s.MarkPaid(ctx, "tok-pay", "cs_test_456")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetByID(ctx, "tok-pay")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "cs_test_123", got.StripeSessionID)
}

func TestIncrementOpenCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, sampleProposal("tok-open")))

	require.NoError(t, s.IncrementOpenCount(ctx, "tok-open"))
	first, err := s.GetByID(ctx, "tok-open")
	require.NoError(t, err)
	assert.Equal(t, 1, first.OpenCount)
	require.NotNil(t, first.OpenedAt)
	openedAt := *first.OpenedAt

	require.NoError(t, s.IncrementOpenCount(ctx, "tok-open"))
	second, err := s.GetByID(ctx, "tok-open")
	require.NoError(t, err)
	assert.Equal(t, 2, second.OpenCount)
	require.NotNil(t, second.OpenedAt)
	assert.Equal(t, openedAt, *second.OpenedAt, "opened_at выставляется ровно один раз")

	assert.ErrorIs(t, s.IncrementOpenCount(ctx, "no-such-id"), ErrNotFound)
}

func TestIncrementOpenCountConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, sampleProposal("tok-open-race")))

	const views = 10
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, s.IncrementOpenCount(ctx, "tok-open-race"))
		}()
	}
	wg.Wait()

	got, err := s.GetByID(ctx, "tok-open-race")
	require.NoError(t, err)
	assert.Equal(t, views, got.OpenCount, "инкременты не должны теряться")
}

func TestListPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p := sampleProposal(fmt.Sprintf("tok-list-%d", i))
		p.Company = fmt.Sprintf("Company %d", i)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Insert(ctx, p))
	}

	rows, total, err := s.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, rows, 2)
	// Новые сверху.
	assert.Equal(t, "tok-list-4", rows[0].ID)
	assert.Equal(t, "tok-list-3", rows[1].ID)

	rows, _, err = s.List(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "tok-list-0", rows[0].ID)
}
