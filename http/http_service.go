// Package http exposes a read-only admin API over the order archive and the
// advertised LSPS1 configuration.
package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/lsps1"
	"github.com/flokiorg/lokilsp/lsps/persist"
)

type HttpService struct {
	orderStore *persist.OrderStore
	lsps1Cfg   *lsps1.ServiceConfig
}

func NewHttpService(orderStore *persist.OrderStore, lsps1Cfg *lsps1.ServiceConfig) *HttpService {
	return &HttpService{
		orderStore: orderStore,
		lsps1Cfg:   lsps1Cfg,
	}
}

func (svc *HttpService) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.GET("/api/lsps1/info", svc.infoHandler)
	e.GET("/api/lsps1/orders", svc.listOrdersHandler)
	e.GET("/api/lsps1/orders/:orderId", svc.getOrderHandler)
	e.GET("/api/log", svc.getLogHandler)
}

type infoResponse struct {
	Website          string         `json:"website,omitempty"`
	SupportedOptions *lsps1.Options `json:"supported_options,omitempty"`
}

func (svc *HttpService) infoHandler(c echo.Context) error {
	resp := infoResponse{
		SupportedOptions: svc.lsps1Cfg.SupportedOptions,
	}
	if svc.lsps1Cfg.Website != nil {
		resp.Website = *svc.lsps1Cfg.Website
	}
	return c.JSON(http.StatusOK, resp)
}

func (svc *HttpService) listOrdersHandler(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	orders, err := svc.orderStore.ListOrders(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (svc *HttpService) getOrderHandler(c echo.Context) error {
	order, err := svc.orderStore.GetOrder(c.Param("orderId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

const maxLogTailLen = 1 << 20

type logResponse struct {
	Log string `json:"log"`
}

func (svc *HttpService) getLogHandler(c echo.Context) error {
	maxLen, _ := strconv.Atoi(c.QueryParam("maxLen"))
	if maxLen <= 0 || maxLen > maxLogTailLen {
		maxLen = maxLogTailLen
	}

	logFileName := logger.GetLogFilePath()
	if logFileName == "" {
		return c.JSON(http.StatusOK, &logResponse{Log: "file log is disabled"})
	}

	logData, err := readFileTail(logFileName, maxLen)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("failed to get log output: %v", err))
	}
	return c.JSON(http.StatusOK, &logResponse{Log: string(logData)})
}

func readFileTail(filePath string, maxLen int) (data []byte, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		err = f.Close()
		if err != nil {
			err = fmt.Errorf("failed to close file: %w", err)
			data = nil
		}
	}()

	var dataReader io.Reader = f

	if maxLen > 0 {
		stat, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}

		if stat.Size() > int64(maxLen) {
			_, err = f.Seek(-int64(maxLen), io.SeekEnd)
			if err != nil {
				return nil, fmt.Errorf("failed to seek file: %w", err)
			}
		}

		dataReader = io.LimitReader(f, int64(maxLen))
	}

	data, err = io.ReadAll(dataReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}
