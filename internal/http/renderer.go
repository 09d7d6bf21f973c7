package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	corefuncs "github.com/target/recipe-finder/internal/http/templates/core"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger // For logging template errors
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// View is one rendered response: the status to send and the data handed to the layout.
// A zero Status means 200.
type View struct {
	Status int
	Data   any
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
// In dev mode TemplateFS should be os.DirFS("frontend/templates"); otherwise the embedded copy.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	renderer := &TemplateRenderer{logger: cfg.Logger}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
	})
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, v View) error {
	return r.renderTemplate(w, "layout", v)
}

// RenderContent renders only the page body for the given page identifier.
func (r *TemplateRenderer) RenderContent(w http.ResponseWriter, page string, v View) error {
	return r.renderTemplate(w, ContentTemplateFor(page), v)
}

// renderTemplate buffers the output so a failing template never leaves a half-written response.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, v View) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, v.Data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}

	return nil
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}
