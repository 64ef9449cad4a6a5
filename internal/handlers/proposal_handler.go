// roof-mri-backend/internal/handlers/proposal_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
)

// createRequest принимает оба варианта написания полей: camelCase из
// дашборда и snake_case из старой формы. Указатели нужны числам и
// булевым, чтобы отличать "не прислали" от нулевого значения.
type createRequest struct {
	ContactName  string `json:"contactName"`
	ContactNameS string `json:"contact_name"`

	Company string `json:"company"`
	Email   string `json:"email"`
	Tier    string `json:"tier"`

	LetClientChoose  *bool `json:"letClientChoose"`
	LetClientChooseS *bool `json:"let_client_choose"`

	ExtraTrainees  *int `json:"extraTrainees"`
	ExtraTraineesS *int `json:"extra_trainees"`

	ExtraKits  *int `json:"extraKits"`
	ExtraKitsS *int `json:"extra_kits"`

	Tracks      []string `json:"tracks"`
	Videography *bool    `json:"videography"`

	OnRoofDay  *bool `json:"onRoofDay"`
	OnRoofDayS *bool `json:"on_roof_day"`

	TotalPrice  *float64 `json:"totalPrice"`
	TotalPriceS *float64 `json:"total_price"`

	VimeoURL  string `json:"vimeoUrl"`
	VimeoURLS string `json:"vimeo_url"`
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return false
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// canonical сводит оба написания к одной канонической форме.
// Вся остальная система про второй вариант не знает.
func (r *createRequest) canonical() lifecycle.CreateInput {
	return lifecycle.CreateInput{
		ContactName:     firstString(r.ContactName, r.ContactNameS),
		Company:         r.Company,
		Email:           r.Email,
		Tier:            r.Tier,
		LetClientChoose: firstBool(r.LetClientChoose, r.LetClientChooseS),
		ExtraTrainees:   firstInt(r.ExtraTrainees, r.ExtraTraineesS),
		ExtraKits:       firstInt(r.ExtraKits, r.ExtraKitsS),
		Tracks:          r.Tracks,
		Videography:     firstBool(r.Videography),
		OnRoofDay:       firstBool(r.OnRoofDay, r.OnRoofDayS),
		TotalPrice:      firstFloat(r.TotalPrice, r.TotalPriceS),
		VimeoURL:        firstString(r.VimeoURL, r.VimeoURLS),
	}
}

// CreateProposal создает предложение и возвращает id с клиентской ссылкой.
func (h *Set) CreateProposal(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	p, url, err := h.ctrl.Create(c.Request.Context(), req.canonical())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "url": url})
}

// GetProposal отдает предложение по id. По умолчанию просмотр
// засчитывается; внутренний поллинг ходит с ?track=false.
func (h *Set) GetProposal(c *gin.Context) {
	track := c.Query("track") != "false"

	p, err := h.ctrl.View(c.Request.Context(), c.Param("id"), track)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type signRequest struct {
	SignatureName  string `json:"signatureName"`
	SignatureNameS string `json:"signature_name"`

	SignatureData  string `json:"signatureData"`
	SignatureDataS string `json:"signature_data"`
}

// SignProposal переводит предложение в статус signed.
// Повторная подпись возвращает 409, а не 500: для клиента это
// "уже подписано", ошибкой в привычном смысле не является.
func (h *Set) SignProposal(c *gin.Context) {
	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	p, err := h.ctrl.Sign(
		c.Request.Context(),
		c.Param("id"),
		firstString(req.SignatureName, req.SignatureNameS),
		firstString(req.SignatureData, req.SignatureDataS),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
