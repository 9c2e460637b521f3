package echoapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/backup"
	"github.com/dkasongo/darasa/core/classroom"
)

// maxRestoreUploadSize caps restore uploads well above the largest
// expected backup document.
const maxRestoreUploadSize = 50 << 20 // 50 MiB

type backupAPI struct {
	local    classroom.Repository
	restorer *backup.Restorer
}

func registerBackupAPI(g *echo.Group, jwt echo.MiddlewareFunc, local classroom.Repository, restorer *backup.Restorer) {
	api := backupAPI{local: local, restorer: restorer}

	bg := g.Group("/backup", jwt, adminMiddleware)
	bg.GET("", api.download)
	bg.POST("/restore", api.restore)
}

func (api backupAPI) download(ctx echo.Context) error {
	data, err := backup.Export(ctx.Request().Context(), api.local)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("darasa-backup-%s.json", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// restore replaces the local store with the uploaded backup document.
// The caller must opt in with ?confirm=true; without it the endpoint
// only describes what the restore would do.
func (api backupAPI) restore(ctx echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxRestoreUploadSize))
	if err != nil {
		return err
	}

	confirmed := ctx.QueryParam("confirm") == "true"
	var description string
	confirm := func(summary string) bool {
		description = summary
		return confirmed
	}

	if err = api.restorer.Restore(ctx.Request().Context(), data, confirm); err != nil {
		switch {
		case errors.Is(err, backup.ErrDeclined):
			return ctx.JSON(http.StatusPreconditionRequired, echo.Map{
				"error":       "confirmation required; repeat the request with ?confirm=true",
				"description": description,
			})
		case errors.Is(err, backup.ErrBadFormat):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": api.restorer.State()})
}
