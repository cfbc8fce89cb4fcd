package api

import (
	"errors"
	"net/http"
	"strings"

	models "ValueScan/internal/domain/models"
	domrepo "ValueScan/internal/domain/repository"
	"ValueScan/internal/usecase"
	xhttp "ValueScan/pkg/http"
	xlogger "ValueScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler exposes the read-only query API over the stock table.
type StocksEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.StockQuery
}

func NewStocksEchoHandler(logger *xlogger.Logger, query *usecase.StockQuery) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, query: query}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/data", h.List)
	e.GET("/data/", h.List)
	e.GET("/data/:symbol", h.GetBySymbol)
	e.GET("/stats", h.Stats)
	e.GET("/stats/", h.Stats)
	e.GET("/undervalued", h.Undervalued)
	e.GET("/undervalued/", h.Undervalued)
}

// Root redirects to the listing endpoint.
func (h *StocksEchoHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, "/data/")
}

func (h *StocksEchoHandler) List(c echo.Context) error {
	req := &models.ListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recs, err := h.query.List(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("list query error", xlogger.Error(err))
		return xhttp.InternalErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, recs)
}

func (h *StocksEchoHandler) GetBySymbol(c echo.Context) error {
	symbol := c.Param("symbol")

	rec, err := h.query.Get(c.Request().Context(), symbol)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			canonical := strings.ToUpper(strings.TrimSpace(symbol))
			return xhttp.NotFoundResponse(c, "Stock "+canonical+" not found")
		}
		h.logger.Error("get query error", xlogger.Error(err), xlogger.String("symbol", symbol))
		return xhttp.InternalErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *StocksEchoHandler) Stats(c echo.Context) error {
	stats, err := h.query.Stats(c.Request().Context())
	if err != nil {
		h.logger.Error("stats query error", xlogger.Error(err))
		return xhttp.InternalErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, stats)
}

func (h *StocksEchoHandler) Undervalued(c echo.Context) error {
	req := &models.UndervaluedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recs, err := h.query.Undervalued(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("undervalued query error", xlogger.Error(err))
		return xhttp.InternalErrorResponse(c, err)
	}
	if len(recs) == 0 {
		return xhttp.NotFoundResponse(c, "No stocks found matching the specified criteria")
	}
	return xhttp.SuccessResponse(c, recs)
}
