package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/transport/http/flash"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageLogin     = "login.html"
	PageSignup    = "signup.html"
	PageSuccess   = "success.html"
	PageDashboard = "dashboard.html"
	PageError     = "error.html"
)

var funcs = template.FuncMap{
	"alertClass": alertClass,
}

// Each page is parsed with its own copy of the layout since every page
// defines the same "title" and "content" blocks.
var pages = mustParse(PageLogin, PageSignup, PageSuccess, PageDashboard, PageError)

func mustParse(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name),
		)
	}
	return out
}

func alertClass(l flash.Level) string {
	switch l {
	case flash.LevelSuccess:
		return "alert-success"
	case flash.LevelError:
		return "alert-danger"
	default:
		return "alert-info"
	}
}

type LoginPage struct {
	Messages      []flash.Message
	UsernameValue string
	UsernameClass string
	PasswordClass string
	Next          string
}

// SignupPage echoes everything but the passwords.
type SignupPage struct {
	Messages    []flash.Message
	FullName    string
	Email       string
	PhoneNumber string
	Flags       account.FieldFlags
}

type SuccessPage struct {
	Messages []flash.Message
}

type DashboardPage struct {
	Messages []flash.Message
	Name     string
	Email    string
}

type ErrorPage struct {
	Messages  []flash.Message
	Status    int
	Title     string
	Message   string
	RequestID string
}

// Render executes page into a buffer first so a template failure never
// leaves a half-written response.
func Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
