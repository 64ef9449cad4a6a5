// roof-mri-backend/internal/lifecycle/controller.go

// Package lifecycle — машина состояний предложения, ядро всей системы.
// Предложение движется только вперед: sent -> signed -> paid.
// Оба критичных перехода (подпись и оплата) выполняются условными
// обновлениями в хранилище, поэтому при гонке выигрывает ровно один запрос.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/adam1capps/roof-mri-backend/internal/metrics"
	"github.com/adam1capps/roof-mri-backend/internal/store"
	"github.com/adam1capps/roof-mri-backend/internal/token"
	"github.com/adam1capps/roof-mri-backend/models"
)

// MaxSignatureBytes — потолок размера закодированной картинки подписи.
const MaxSignatureBytes = 500 * 1024

// Сколько раз перегенерировать id при коллизии, прежде чем сдаться.
const insertAttempts = 5

// Store — контракт хранилища, который нужен контроллеру.
// Реализуется store.ProposalStore; в тестах ничем не подменяется,
// тесты гоняют настоящее хранилище поверх SQLite.
type Store interface {
	Insert(ctx context.Context, p *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	MarkSigned(ctx context.Context, id, signatureName, signatureData string, signedAt time.Time) (bool, error)
	MarkPaid(ctx context.Context, id, sessionID string) (bool, error)
	IncrementOpenCount(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.ProposalSummary, int64, error)
}

// Notifier рассылает письма на переходах жизненного цикла.
// Ошибки рассылки не откатывают уже сохраненное состояние.
type Notifier interface {
	ProposalCreated(ctx context.Context, p *models.Proposal, url string) error
	ProposalSigned(ctx context.Context, p *models.Proposal) error
	ProposalPaid(ctx context.Context, p *models.Proposal) error
}

// CheckoutSession — созданная платежная сессия у провайдера.
type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway создает платежные сессии. Подтверждение оплаты приходит
// отдельно, асинхронным вебхуком.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p *models.Proposal) (CheckoutSession, error)
}

// EventSink получает события жизненного цикла для живой ленты дашборда.
type EventSink interface {
	Publish(event string, p *models.Proposal)
}

type Controller struct {
	store    Store
	notifier Notifier
	gateway  Gateway
	baseURL  string

	// Events может быть nil — тогда события просто никуда не публикуются.
	Events EventSink
	// NewID подменяется в тестах на детерминированный генератор.
	NewID func() string
}

func NewController(s Store, n Notifier, g Gateway, baseURL string) *Controller {
	return &Controller{
		store:    s,
		notifier: n,
		gateway:  g,
		baseURL:  strings.TrimRight(baseURL, "/"),
		NewID:    token.New,
	}
}

// strict вычищает любую разметку из свободного текста.
var strict = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// CreateInput — каноническая форма запроса на создание.
// Нормализация двух принимаемых вариантов написания полей
// происходит в хэндлере, сюда приходит уже один вид.
type CreateInput struct {
	ContactName     string
	Company         string
	Email           string
	Tier            string
	LetClientChoose bool
	ExtraTrainees   int
	ExtraKits       int
	Tracks          []string
	Videography     bool
	OnRoofDay       bool
	TotalPrice      *float64
	VimeoURL        string
}

// Create валидирует вход, создает предложение и рассылает уведомления.
// Запись становится долговечной до отправки писем: упавшая почта — это
// предупреждение в логе, а не откат создания.
func (c *Controller) Create(ctx context.Context, in CreateInput) (*models.Proposal, string, error) {
	verr := validationErrors{}

	contactName := sanitize(in.ContactName)
	company := sanitize(in.Company)
	email := strings.TrimSpace(in.Email)

	if contactName == "" {
		verr.add("contactName", "обязательное поле")
	}
	if company == "" {
		verr.add("company", "обязательное поле")
	}
	if email == "" {
		verr.add("email", "обязательное поле")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.add("email", "некорректный адрес")
	}
	if !models.ValidTier(in.Tier) {
		verr.add("tier", "допустимы professional, regional, enterprise или пустое значение")
	}
	if in.ExtraTrainees < 0 {
		verr.add("extraTrainees", "не может быть отрицательным")
	}
	if in.ExtraKits < 0 {
		verr.add("extraKits", "не может быть отрицательным")
	}
	if in.TotalPrice != nil && *in.TotalPrice < 0 {
		verr.add("totalPrice", "не может быть отрицательной")
	}
	if err := verr.err(); err != nil {
		return nil, "", err
	}

	tracks := make([]string, 0, len(in.Tracks))
	for _, tr := range in.Tracks {
		if clean := sanitize(tr); clean != "" {
			tracks = append(tracks, clean)
		}
	}

	p := &models.Proposal{
		ContactName:     contactName,
		Company:         company,
		Email:           email,
		Tier:            in.Tier,
		LetClientChoose: in.LetClientChoose,
		ExtraTrainees:   in.ExtraTrainees,
		ExtraKits:       in.ExtraKits,
		Tracks:          tracks,
		Videography:     in.Videography,
		OnRoofDay:       in.OnRoofDay,
		TotalPrice:      in.TotalPrice,
		VimeoURL:        sanitize(in.VimeoURL),
		Status:          models.StatusSent,
		PaymentStatus:   models.PaymentUnpaid,
	}

	// Коллизия id почти невозможна, но на этот случай пробуем свежий токен.
	var insertErr error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		p.ID = c.NewID()
		insertErr = c.store.Insert(ctx, p)
		if !errors.Is(insertErr, store.ErrDuplicateID) {
			break
		}
		slog.Warn("Коллизия id предложения, генерируем новый", "attempt", attempt+1)
	}
	if insertErr != nil {
		return nil, "", insertErr
	}

	url := c.ProposalURL(p.ID)
	metrics.ProposalsCreated.Inc()
	c.publish("created", p)

	if err := c.notifier.ProposalCreated(ctx, p, url); err != nil {
		slog.Warn("Предложение создано, но уведомления не отправлены", "id", p.ID, "error", err)
	}

	return p, url, nil
}

// ProposalURL строит клиентскую ссылку вида <base>/p/<id>.
func (c *Controller) ProposalURL(id string) string {
	return c.baseURL + "/p/" + id
}

// View возвращает предложение. При trackOpen просмотр засчитывается
// до чтения, чтобы в ответе уже был обновленный счетчик. Внутренний
// поллинг ходит с trackOpen=false и статистику не искажает.
func (c *Controller) View(ctx context.Context, id string, trackOpen bool) (*models.Proposal, error) {
	if trackOpen {
		if err := c.store.IncrementOpenCount(ctx, id); err != nil {
			return nil, err
		}
	}
	p, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trackOpen {
		c.publish("opened", p)
	}
	return p, nil
}

// Sign выполняет переход sent -> signed. Условное обновление гарантирует,
// что из конкурирующих запросов выиграет ровно один; проигравший по
// повторному чтению узнает, был ли это неизвестный id или уже подписанное
// предложение.
func (c *Controller) Sign(ctx context.Context, id, signatureName, signatureData string) (*models.Proposal, error) {
	verr := validationErrors{}
	name := sanitize(signatureName)
	if name == "" {
		verr.add("signatureName", "обязательное поле")
	}
	if signatureData == "" {
		verr.add("signatureData", "обязательное поле")
	} else if len(signatureData) > MaxSignatureBytes {
		verr.add("signatureData", "подпись больше 500 КБ")
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	won, err := c.store.MarkSigned(ctx, id, name, signatureData, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !won {
		// Либо id неизвестен, либо кто-то успел раньше.
		if _, err := c.store.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadySigned
	}

	p, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.ProposalsSigned.Inc()
	c.publish("signed", p)

	if err := c.notifier.ProposalSigned(ctx, p); err != nil {
		slog.Warn("Подписание сохранено, но уведомление не отправлено", "id", p.ID, "error", err)
	}
	return p, nil
}

// CreatePaymentSession создает hosted-сессию оплаты у провайдера.
// Оплата разрешена только после подписания и только один раз; сама
// сессия здесь ничего не помечает — подтверждение придет вебхуком.
func (c *Controller) CreatePaymentSession(ctx context.Context, id string) (string, error) {
	p, err := c.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if p.Status != models.StatusSigned {
		return "", ErrNotSigned
	}
	if p.PaymentStatus == models.PaymentPaid {
		return "", ErrAlreadyPaid
	}
	if p.TotalPrice == nil || *p.TotalPrice <= 0 {
		return "", &ValidationError{Fields: map[string]string{
			"totalPrice": "в предложении нет положительной суммы к оплате",
		}}
	}

	sess, err := c.gateway.CreateCheckoutSession(ctx, p)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// PaymentEvent — проверенное событие оплаты от провайдера.
// До контроллера оно доходит только после криптографической
// проверки подписи в платежном адаптере.
type PaymentEvent struct {
	ProposalID string
	SessionID  string
}

// ConfirmPayment применяет подтверждение оплаты идемпотентно.
// Неизвестный или пустой correlation id — это предупреждение в логе и
// успешный ответ: заставлять провайдера бесконечно ретраить событие,
// которое мы не можем разрешить, бессмысленно.
func (c *Controller) ConfirmPayment(ctx context.Context, ev PaymentEvent) error {
	if ev.ProposalID == "" {
		slog.Warn("Событие оплаты без correlation id, игнорируем", "session_id", ev.SessionID)
		metrics.WebhookEvents.WithLabelValues("unknown").Inc()
		return nil
	}

	won, err := c.store.MarkPaid(ctx, ev.ProposalID, ev.SessionID)
	if err != nil {
		return err
	}
	if !won {
		p, err := c.store.GetByID(ctx, ev.ProposalID)
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("Событие оплаты для неизвестного предложения", "id", ev.ProposalID, "session_id", ev.SessionID)
			metrics.WebhookEvents.WithLabelValues("unknown").Inc()
			return nil
		}
		if err != nil {
			return err
		}
		// Повторная доставка уже примененного события.
		slog.Info("Повторное подтверждение оплаты, состояние не изменено", "id", p.ID, "session_id", ev.SessionID)
		metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}

	p, err := c.store.GetByID(ctx, ev.ProposalID)
	if err != nil {
		return err
	}

	metrics.ProposalsPaid.Inc()
	metrics.WebhookEvents.WithLabelValues("ok").Inc()
	c.publish("paid", p)

	if err := c.notifier.ProposalPaid(ctx, p); err != nil {
		slog.Warn("Оплата сохранена, но уведомление не отправлено", "id", p.ID, "error", err)
	}
	return nil
}

// Пределы пагинации списка.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// List возвращает страницу кратких проекций для внутреннего дашборда.
func (c *Controller) List(ctx context.Context, limit, offset int) ([]models.ProposalSummary, int64, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return c.store.List(ctx, limit, offset)
}

func (c *Controller) publish(event string, p *models.Proposal) {
	if c.Events != nil {
		c.Events.Publish(event, p)
	}
}
