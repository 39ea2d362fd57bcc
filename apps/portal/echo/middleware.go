package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// guarded lets a request through only if the guard permits entering route p, and
// redirects it where the guard says otherwise.
func (s *server) guarded(p string) echo.MiddlewareFunc {
	entry := s.Table.Resolve(p)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			decision, err := s.Guard.Check(ctx.Request().Context(), entry)
			if err != nil {
				return errors.Wrapf(err, "checking access to %s", entry.Path)
			}
			if !decision.Permitted() {
				return ctx.Redirect(http.StatusSeeOther, decision.Redirect)
			}
			return next(ctx)
		}
	}
}
