package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// PointsHandler serves balances, purchases and unlocks. Every route needs
// an identified reader.
type PointsHandler struct {
	service  *app.PointsService
	calendar calendar
}

// NewPointsHandler creates a points handler.
func NewPointsHandler(service *app.PointsService, loc *time.Location, now func() time.Time) *PointsHandler {
	return &PointsHandler{
		service:  service,
		calendar: newCalendar(loc, now),
	}
}

// Balance handles GET /api/v1/points.
func (h *PointsHandler) Balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Balance:    balance,
		UnlockCost: h.service.UnlockCost(),
	})
}

// Purchase handles POST /api/v1/points/purchase.
func (h *PointsHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	res, err := h.service.Purchase(c.Request.Context(), app.PurchaseRequest{
		UserID: middleware.UserID(c),
		Pack:   req.Pack,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPurchaseResponse(res))
}

// Unlock handles POST /api/v1/fortunes/:sign/unlock. A pair that is already
// unlocked is answered with already=true and costs nothing.
func (h *PointsHandler) Unlock(c *gin.Context) {
	sign, err := domain.ParseSign(c.Param("sign"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.UnlockRequest
	if c.Request.ContentLength != 0 {
		if err := dto.BindAndValidate(c, &req); err != nil {
			dto.RespondWithBindError(c, err)
			return
		}
	}

	dateKey := h.calendar.dateOrToday(req.Date)

	res, err := h.service.Unlock(c.Request.Context(), app.UnlockRequest{
		UserID:  middleware.UserID(c),
		Sign:    sign,
		DateKey: dateKey,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUnlockResponse(sign.Key, dateKey, res))
}

// RegisterRoutes registers the points routes on rg, which must already
// require authentication.
func (h *PointsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/points", h.Balance)
	rg.POST("/points/purchase", h.Purchase)
	rg.POST("/fortunes/:sign/unlock", h.Unlock)
}
