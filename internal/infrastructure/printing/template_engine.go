package printing

import (
	"bytes"
	"context"
	"html/template"
	"maps"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReceiptDateLayout is how bill timestamps appear on the receipt
const ReceiptDateLayout = "02/01/2006, 03:04:05 pm"

// TemplateEngine renders receipt templates with html/template
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or replaces template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with the receipt helpers
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		funcMap: template.FuncMap{
			"formatAmount":  formatAmount,
			"formatMoney":   formatMoney,
			"amountInWords": amountInWords,
			"formatDate":    formatDate,
			"truncate":      truncate,
			"add":           add,
			"default":       defaultFunc,
			"join":          strings.Join,
			"upper":         strings.ToUpper,
			"title":         titleCase,
		},
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render executes a stored template against data
func (e *TemplateEngine) Render(ctx context.Context, tmpl *StaticTemplate, data any) (string, error) {
	if tmpl == nil {
		return "", NewRenderError(ErrCodeTemplateNotFound, "template is nil", nil)
	}
	return e.RenderString(ctx, tmpl.ID, tmpl.Content, data)
}

// RenderString parses content and executes it against data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderTimeout, "template rendering cancelled", err)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// Validate parses content without executing it
func (e *TemplateEngine) Validate(content string) error {
	if _, err := template.New("validate").Funcs(e.funcMap).Parse(content); err != nil {
		return NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return nil
}

// toDecimal accepts the numeric shapes templates see
func toDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// formatAmount prints two decimals without grouping, as on the receipt (1234.50)
func formatAmount(v any) string {
	return toDecimal(v).StringFixed(2)
}

// formatMoney prints rupees with Indian grouping (₹1,23,456.00)
func formatMoney(v any) string {
	return valueobject.NewMoneyINR(toDecimal(v)).Format()
}

func amountInWords(v any) (string, error) {
	return printing.AmountInWords(toDecimal(v))
}

func formatDate(t time.Time, layout ...string) string {
	if t.IsZero() {
		return ""
	}
	if len(layout) > 0 && layout[0] != "" {
		return t.Format(layout[0])
	}
	return t.Format(ReceiptDateLayout)
}

// truncate cuts s to n runes and appends "..." when anything was removed
func truncate(n int, s string) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// titleCase capitalises each word; names keyed in lower case read properly on A4 invoices
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func add(a, b int) int {
	return a + b
}

// defaultFunc returns def when v is the zero value of its type
func defaultFunc(def, v any) any {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	if rv.IsZero() {
		return def
	}
	if rv.Kind() == reflect.String && strings.TrimSpace(rv.String()) == "" {
		return def
	}
	return v
}
