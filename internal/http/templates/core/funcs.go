package core

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"
	"strings"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"formatNumber": FormatNumber,
		"pluralize":    Pluralize,
		"truncateText": TruncateText,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("content template mapping not configured")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}
}

// FormatNumber formats an int with comma separators for thousands.
func FormatNumber(n int) string {
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	s := strconv.FormatUint(u, 10)
	if len(s) > 3 {
		s = withCommas(s)
	}
	if neg {
		return "-" + s
	}
	return s
}

func withCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s) + (len(s)-1)/3)

	prefix := len(s) % 3
	if prefix == 0 {
		prefix = 3
	}

	b.WriteString(s[:prefix])
	for i := prefix; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Pluralize returns singular when n is exactly one and plural otherwise.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// Adds an ellipsis (…) when truncated for visual clarity.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	// Add ellipsis if we have room (need at least 1 char + ellipsis)
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}

	return string(runes[:1])
}
