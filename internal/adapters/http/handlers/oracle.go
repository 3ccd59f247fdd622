package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/logging"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// Error texts of POST /fortune. Browser clients match on them.
const (
	oracleErrMethod     = "POST only"
	oracleErrSign       = "invalid signKey"
	oracleErrDate       = "invalid dateKey"
	oracleErrMissingKey = "Missing OPENAI_API_KEY on server"
	oracleErrInternal   = "internal error"
)

// OracleHandler serves POST /fortune, the direct language model endpoint.
// It answers errors as {ok:false,error} instead of the API error envelope.
type OracleHandler struct {
	service *app.FortuneService
}

// NewOracleHandler creates an oracle handler.
func NewOracleHandler(service *app.FortuneService) *OracleHandler {
	return &OracleHandler{service: service}
}

// Generate handles every method on /api/v1/fortune; only POST is served.
func (h *OracleHandler) Generate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, dto.NewOracleError(oracleErrMethod))

		return
	}

	// A missing or malformed body reads as {} and fails on signKey.
	var req dto.OracleRequest
	_ = c.ShouldBindJSON(&req)

	if !domain.IsSignKey(req.SignKey) {
		c.JSON(http.StatusBadRequest, dto.NewOracleError(oracleErrSign))
		return
	}

	if _, err := domain.ParseDateKey(req.DateKey); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewOracleError(oracleErrDate))
		return
	}

	f, err := h.service.Generate(c.Request.Context(), app.GenerateRequest{
		SignKey: req.SignKey,
		DateKey: req.DateKey,
		Paid:    req.Paid,
	})
	if err != nil {
		status, msg := oracleFailure(err)

		logging.FromContext(c.Request.Context()).WarnContext(c.Request.Context(), "fortune generation failed",
			slog.Int("status", status),
			slog.Any("error", err),
		)

		c.JSON(status, dto.NewOracleError(msg))

		return
	}

	c.JSON(http.StatusOK, dto.NewOracleResponse(f))
}

func oracleFailure(err error) (int, string) {
	switch {
	case errors.Is(err, ports.ErrWriterNotConfigured):
		return http.StatusInternalServerError, oracleErrMissingKey
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case domain.IsUnavailable(err):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, oracleErrInternal
	}
}

// oracleMethods are routed to Generate so methods other than POST get the
// endpoint's own 405 body. OPTIONS is left to the CORS preflight route.
var oracleMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// RegisterRoutes registers /fortune on rg.
func (h *OracleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for _, method := range oracleMethods {
		rg.Handle(method, "/fortune", h.Generate)
	}
}
