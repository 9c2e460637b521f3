package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/sync"
)

type syncAPI struct {
	svc *sync.Service
}

func registerSyncAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *sync.Service) {
	api := syncAPI{svc: svc}

	sg := g.Group("/sync", jwt, staffMiddleware)
	sg.POST("", api.run)
	sg.GET("/status", api.status)
}

type syncResponse struct {
	Uploaded   int    `json:"uploaded"`
	Downloaded int    `json:"downloaded"`
	UpToDate   bool   `json:"upToDate"`
	Message    string `json:"message"`
}

func (api syncAPI) run(ctx echo.Context) error {
	summary, err := api.svc.Run(ctx.Request().Context(), nil)
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrSyncInProgress):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, sync.ErrOffline):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return err
	}
	return ctx.JSON(http.StatusOK, syncResponse{
		Uploaded:   summary.Uploaded,
		Downloaded: summary.Downloaded,
		UpToDate:   summary.UpToDate,
		Message:    summary.String(),
	})
}

func (api syncAPI) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": api.svc.Status()})
}
