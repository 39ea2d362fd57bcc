package echoportal

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/services/toast"
)

//go:embed templates/*.html
var templateFS embed.FS

type (
	renderer struct {
		templates *template.Template
	}

	// pageData is what page.html and error.html render.
	pageData struct {
		Page   views.Page
		User   *user.User
		Toasts []toastsvc.Toast
		// login form
		Email  string
		Errors map[string]string
		// error page
		Code    int
		Message string
	}
)

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"roles": user.FormatRoles,
		"action": func(p views.Page, row int) *views.Action {
			if a, ok := p.Actions[row]; ok {
				return &a
			}
			return nil
		},
	}
	return &renderer{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
