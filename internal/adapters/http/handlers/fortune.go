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

// FortuneHandler serves the sign catalogue, daily fortunes and readings.
type FortuneHandler struct {
	service  *app.FortuneService
	calendar calendar
}

// NewFortuneHandler creates a fortune handler. Dates default to today in loc;
// now may be nil.
func NewFortuneHandler(service *app.FortuneService, loc *time.Location, now func() time.Time) *FortuneHandler {
	return &FortuneHandler{
		service:  service,
		calendar: newCalendar(loc, now),
	}
}

// ListSigns handles GET /api/v1/signs.
func (h *FortuneHandler) ListSigns(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSignsResponse(domain.Signs()))
}

// Overview handles GET /api/v1/fortunes?date=YYYY-MM-DD.
func (h *FortuneHandler) Overview(c *gin.Context) {
	var q dto.DateQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	dateKey := h.calendar.dateOrToday(q.Date)

	digests, err := h.service.Overview(c.Request.Context(), dateKey)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOverviewResponse(dateKey, digests))
}

// Daily handles GET /api/v1/fortunes/:sign?date=&source=.
// Anonymous callers get the digest only.
func (h *FortuneHandler) Daily(c *gin.Context) {
	sign, err := domain.ParseSign(c.Param("sign"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var q dto.DailyQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	view, err := h.service.Daily(c.Request.Context(), app.DailyQuery{
		Sign:    sign,
		DateKey: h.calendar.dateOrToday(q.Date),
		UserID:  middleware.UserID(c),
		Source:  domain.Source(q.Source),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFortuneResponse(view))
}

// Reading handles POST /api/v1/readings. The requested access level is a
// hint; the service writes paid readings for paid profiles only.
func (h *FortuneHandler) Reading(c *gin.Context) {
	var req dto.ReadingRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	sign, err := domain.ParseSign(req.SignKey)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	reading, err := h.service.Reading(c.Request.Context(), app.ReadingQuery{
		Sign:         sign,
		DateKey:      req.DateKey,
		DesiredLevel: domain.ParseAccessLevel(req.AccessLevel),
		UserID:       middleware.UserID(c),
		UserContext:  req.UserContext,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

// RegisterRoutes registers the public fortune routes on rg.
func (h *FortuneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/signs", h.ListSigns)
	rg.GET("/fortunes", h.Overview)
	rg.GET("/fortunes/:sign", h.Daily)
	rg.POST("/readings", h.Reading)
}
