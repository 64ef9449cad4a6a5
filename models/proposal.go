// roof-mri-backend/models/proposal.go
package models

import (
	"time"
)

// Статусы жизненного цикла. Предложение движется только вперед:
// sent -> signed по оси подписи, unpaid -> paid по оси оплаты.
const (
	StatusSent   = "sent"
	StatusSigned = "signed"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Тарифы обучающих пакетов.
const (
	TierProfessional = "professional"
	TierRegional     = "regional"
	TierEnterprise   = "enterprise"
)

// Базовая комплектация любого пакета; extra_* добавляются сверху.
const (
	BaseTrainees = 3
	BaseKits     = 1
)

// Proposal — коммерческое предложение. Единственная сущность системы.
// ID — случайный URL-безопасный токен, он же bearer-ключ доступа:
// кто знает ссылку, тот может смотреть и подписывать.
type Proposal struct {
	ID        string    `gorm:"primaryKey;size:32"  json:"id"`
	CreatedAt time.Time `                           json:"createdAt"`
	UpdatedAt time.Time `                           json:"updatedAt"`

	ContactName string `gorm:"column:contact_name" json:"contactName"`
	Company     string `gorm:"column:company"      json:"company"`
	Email       string `gorm:"column:email"        json:"email"`

	// Конфигурация пакета. Tier пустой, когда выбор оставлен клиенту.
	Tier            string   `gorm:"column:tier"              json:"tier,omitempty"`
	LetClientChoose bool     `gorm:"column:let_client_choose" json:"letClientChoose"`
	ExtraTrainees   int      `gorm:"column:extra_trainees"    json:"extraTrainees"`
	ExtraKits       int      `gorm:"column:extra_kits"        json:"extraKits"`
	Tracks          []string `gorm:"column:tracks;serializer:json" json:"tracks"`
	Videography     bool     `gorm:"column:videography"       json:"videography"`
	OnRoofDay       bool     `gorm:"column:on_roof_day"       json:"onRoofDay"`
	TotalPrice      *float64 `gorm:"column:total_price"       json:"totalPrice,omitempty"`
	VimeoURL        string   `gorm:"column:vimeo_url"         json:"vimeoUrl,omitempty"`

	// Жизненный цикл.
	Status          string     `gorm:"column:status;default:sent"           json:"status"`
	PaymentStatus   string     `gorm:"column:payment_status;default:unpaid" json:"paymentStatus"`
	SignatureName   string     `gorm:"column:signature_name"                json:"signatureName,omitempty"`
	SignatureData   string     `gorm:"column:signature_data;type:text"      json:"signatureData,omitempty"`
	SignedAt        *time.Time `gorm:"column:signed_at"                     json:"signedAt,omitempty"`
	OpenedAt        *time.Time `gorm:"column:opened_at"                     json:"openedAt,omitempty"`
	OpenCount       int        `gorm:"column:open_count"                    json:"openCount"`
	StripeSessionID string     `gorm:"column:stripe_session_id"             json:"stripeSessionId,omitempty"`
}

func (Proposal) TableName() string { return "proposals" }

// Trainees возвращает итоговое число обучаемых: база плюс докупленные места.
func (p *Proposal) Trainees() int { return BaseTrainees + p.ExtraTrainees }

// Kits возвращает итоговое число комплектов оборудования.
func (p *Proposal) Kits() int { return BaseKits + p.ExtraKits }

// ValidTier сообщает, входит ли значение в перечень тарифов.
// Пустая строка допустима: тариф выберет клиент.
func ValidTier(tier string) bool {
	switch tier {
	case "", TierProfessional, TierRegional, TierEnterprise:
		return true
	}
	return false
}

// ProposalSummary — облегченная проекция для списков и выгрузок.
type ProposalSummary struct {
	ID            string     `json:"id"`
	ContactName   string     `json:"contactName"`
	Company       string     `json:"company"`
	Email         string     `json:"email"`
	Tier          string     `json:"tier,omitempty"`
	TotalPrice    *float64   `json:"totalPrice,omitempty"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	OpenCount     int        `json:"openCount"`
	OpenedAt      *time.Time `json:"openedAt,omitempty"`
	SignedAt      *time.Time `json:"signedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
