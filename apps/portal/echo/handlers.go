package echoportal

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/services/api"
)

const (
	msgToggleFailed  = "Impossible de modifier la notification"
	msgInvalidSprint = "Sprint invalide"
	msgSprintUnknown = "Sprint introuvable"
)

func (s *server) render(ctx echo.Context, code int, data pageData) error {
	if usr, ok := s.Session.User(); ok {
		data.User = &usr
	}
	data.Toasts = s.Toasts.Drain()
	return ctx.Render(code, "page.html", data)
}

// page navigates to the requested path and renders where the navigation ended.
func (s *server) page(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	requested := nav.Clean(ctx.Request().URL.Path)

	loc, err := s.Router.Navigate(rctx, requested)
	if err != nil {
		return errors.Wrapf(err, "navigating to %s", requested)
	}
	if loc.Path != requested {
		return ctx.Redirect(http.StatusSeeOther, loc.Path)
	}

	page, err := views.Build(rctx, s.views, loc.Entry)
	// a backend call answered 401 and logged the session out
	if loc.Path != nav.LoginPath && !s.Session.IsAuthenticated() {
		return ctx.Redirect(http.StatusSeeOther, nav.LoginPath)
	}
	if err != nil {
		return errors.Wrapf(err, "building %s", loc.Path)
	}
	return s.render(ctx, http.StatusOK, pageData{Page: page})
}

func (s *server) renderLogin(ctx echo.Context, code int, email string, fldErrs map[string]string) error {
	page, err := views.Build(ctx.Request().Context(), s.views, s.Table.Resolve(nav.LoginPath))
	if err != nil {
		return errors.Wrap(err, "building login")
	}
	return s.render(ctx, code, pageData{Page: page, Email: email, Errors: fldErrs})
}

func (s *server) login(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	req := user.LoginRequest{
		Email:    ctx.FormValue("email"),
		Password: ctx.FormValue("password"),
	}

	if _, err := s.API.Auth.SignIn(rctx, req); err != nil {
		var vErr *core.ValidationError
		switch {
		case errors.As(err, &vErr):
			return s.renderLogin(ctx, http.StatusBadRequest, req.Email, vErr.FieldMap())
		case apisvc.StatusCode(err) == http.StatusUnauthorized, apisvc.StatusCode(err) == http.StatusBadRequest:
			return s.renderLogin(ctx, http.StatusUnauthorized, req.Email, map[string]string{"": msgBadCredentials})
		default:
			return errors.Wrap(err, "signing in")
		}
	}

	if err := s.Session.LoadUser(rctx); err != nil {
		return errors.Wrap(err, "loading user")
	}
	return ctx.Redirect(http.StatusSeeOther, nav.HomePath)
}

func (s *server) logout(ctx echo.Context) error {
	s.Session.Logout()
	return ctx.Redirect(http.StatusSeeOther, nav.LoginPath)
}

func (s *server) toggleNotification(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if _, ok := s.API.Notifications.Toggle(ctx.Request().Context(), id); !ok {
		s.Toasts.Error(msgToggleFailed)
	}
	return ctx.Redirect(http.StatusSeeOther, "/notification")
}

func (s *server) selectSprint(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	back := "/preparation/sprint"

	id, err := strconv.Atoi(ctx.FormValue("sprint"))
	if err != nil || id <= 0 {
		s.Toasts.Warning(msgInvalidSprint)
		return ctx.Redirect(http.StatusSeeOther, back)
	}
	if _, ok := s.API.Sprints.ByID(rctx, id); !ok {
		s.Toasts.Error(msgSprintUnknown)
		return ctx.Redirect(http.StatusSeeOther, back)
	}

	s.Session.SetSelectedSprintID(id)
	s.Toasts.Success(fmt.Sprintf("Sprint %d sélectionné", id))
	return ctx.Redirect(http.StatusSeeOther, back)
}
