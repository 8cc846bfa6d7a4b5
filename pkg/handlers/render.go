package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"homezen/pkg/apiclient"
	"homezen/pkg/invoice"
	"homezen/pkg/middleware"
	"homezen/pkg/nav"
	"homezen/pkg/session"
)

const (
	layoutApp  = "layout"
	layoutAuth = "auth"

	pagesGlob    = "templates/pages/*.html"
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
)

var printer = message.NewPrinter(language.English)

// Page is the data every template receives.
type Page struct {
	Title         string
	Path          string
	Session       *session.Session
	Nav           []nav.Item
	Section       string
	Notifications []session.Notification
	// Public pages render without the sidebar even for a signed-in browser.
	Public bool
	// Error is the inline banner above a form.
	Error  string
	Fields map[string]string
	Form   map[string]string
	Data   any
}

func (p *Page) Field(name string) string {
	return p.Fields[name]
}

func (p *Page) Value(name string) string {
	return p.Form[name]
}

// View renders the embedded page templates.
type View struct {
	pages  map[string]*template.Template
	Logger *slog.Logger
	Now    func() time.Time
}

func NewView(fsys fs.FS, logger *slog.Logger) (*View, error) {
	names, err := fs.Glob(fsys, pagesGlob)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("no page templates found")
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		key := strings.TrimSuffix(path.Base(name), ".html")
		t, err := template.New(key).Funcs(funcs).ParseFS(fsys, layoutFile, partialsGlob, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[key] = t
	}
	return &View{pages: pages, Logger: logger, Now: time.Now}, nil
}

var funcs = template.FuncMap{
	"kes":      kes,
	"date":     formatDate,
	"title":    titleCase,
	"lower":    strings.ToLower,
	"initials": initials,
	"percent":  func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"inc":      func(i int) int { return i + 1 },
}

func kes(amount float64) string {
	return printer.Sprintf("KES %.0f", math.Round(amount))
}

func formatDate(s string) string {
	t, ok := invoice.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02 Jan 2006")
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	words := strings.Fields(s)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// initials is the first letter of the first two words of name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		first, _ := utf8.DecodeRuneInString(w)
		out = append(out, unicode.ToUpper(first))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Page builds the common page data and drains pending notifications,
// so it must run before anything is written to the response.
func (v *View) Page(r *http.Request, title string) *Page {
	p := &Page{
		Title:  title,
		Path:   r.URL.Path,
		Fields: map[string]string{},
		Form:   map[string]string{},
	}
	repo, ok := session.FromContext(r.Context())
	if !ok {
		return p
	}
	p.Notifications = repo.Notifications()
	if sess := repo.Current(); sess != nil {
		p.Session = sess
		p.Nav = nav.Items(sess.Role)
		p.Section = nav.Section(sess.Role)
	}
	return p
}

// Render executes the page into a buffer first so a template error
// never leaves a half-written response.
func (v *View) Render(w http.ResponseWriter, status int, name string, p *Page) {
	t, ok := v.pages[name]
	if !ok {
		v.Logger.Error("unknown page", "page", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	layout := layoutApp
	if p.Public || p.Session == nil {
		layout = layoutAuth
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, p); err != nil {
		v.Logger.Error("render", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		v.Logger.Error("write response", "page", name, "error", err)
	}
}

// Notify queues a toast for the next rendered page.
func (v *View) Notify(r *http.Request, kind, msg string) {
	repo, ok := session.FromContext(r.Context())
	if !ok {
		return
	}
	if err := repo.Notify(kind, msg); err != nil {
		v.Logger.Error("notify", "error", err)
	}
}

// SessionEnded logs the browser out when the backend rejected its
// token. The caller must stop handling the request when it returns true.
func (v *View) SessionEnded(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	repo, _ := session.FromContext(r.Context())
	v.Logger.Info("backend rejected session token", "path", r.URL.Path)
	middleware.EndSession(w, r, repo, v.Logger)
	return true
}

func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// PublicPage is Page for screens outside the guarded area.
func (v *View) PublicPage(r *http.Request, title string) *Page {
	p := v.Page(r, title)
	p.Public = true
	return p
}

func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, http.StatusNotFound, "not_found", v.PublicPage(r, "Page not found"))
}

func (v *View) Forbidden(w http.ResponseWriter, r *http.Request) {
	v.Render(w, http.StatusForbidden, "forbidden", v.Page(r, "Not allowed"))
}

func (v *View) Loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	v.Render(w, http.StatusServiceUnavailable, "loading", v.Page(r, "Loading"))
}

func (v *View) InternalError(w http.ResponseWriter, r *http.Request) {
	v.Render(w, http.StatusInternalServerError, "error", v.Page(r, "Something went wrong"))
}
