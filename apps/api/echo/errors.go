package echoapi

import (
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core"
)

type httpErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler translates app errors into JSON responses and reports
// unexpected ones to the logger.
// signalShutdown is called in order to gracefully shutdown the Server whenever
// a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			resp httpErrorResponse
		)

		switch origErr := errors.Cause(err).(type) {
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Error = origErr.Error()
			resp.Fields = make(map[string]string, len(origErr.Fields))
			for _, fe := range origErr.Fields {
				resp.Fields[fe.Field] = fe.Error
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp.Error = "validation error"
			resp.Fields = make(map[string]string, len(origErr))
			for _, fe := range origErr {
				resp.Fields[fe.Field()] = fe.Translate(core.Translator)
			}
		case *echo.HTTPError:
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				resp.Error = msg
			} else {
				resp.Error = http.StatusText(code)
			}
		default:
			resp.Error = http.StatusText(code)
			logger.Error(err.Error(), err)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		var respErr error
		if ctx.Request().Method == http.MethodHead {
			respErr = ctx.NoContent(code)
		} else {
			respErr = ctx.JSON(code, resp)
		}
		if respErr != nil {
			logger.Error(respErr.Error(), respErr)
		}
	}
}
