package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/services/api"
	"github.com/trezcool/projectgl/services/toast"
)

const msgBadCredentials = "Email ou mot de passe incorrect"

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "Page introuvable")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering our errors as
// the error page.
func newAppHTTPErrorHandler(logger core.Logger, store *session.Store, toasts *toastsvc.Queue) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		case *apisvc.StatusError:
			// the backend refused: surface its status without the body
			code = http.StatusBadGateway
			if origErr.Code == http.StatusForbidden || origErr.Code == http.StatusNotFound {
				code = origErr.Code
			}
			message = http.StatusText(code)
			logger.Warn("backend error", errors.Wrap(err, message), currentUser(store))
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error(message, errors.Wrap(err, message), currentUser(store))
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				usr, _ := store.User()
				data := pageData{
					Page:    views.Page{Title: http.StatusText(code)},
					Toasts:  toasts.Drain(),
					Code:    code,
					Message: message,
				}
				if store.IsAuthenticated() {
					data.User = &usr
				}
				err = ctx.Render(code, "error.html", data)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func currentUser(store *session.Store) user.User {
	usr, _ := store.User()
	return usr
}
