package printing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

func renderDefaultReceipt(t *testing.T, data *ReceiptData) string {
	t.Helper()
	store, err := NewTemplateStore(nil)
	require.NoError(t, err)
	tmpl, err := store.ForPaperSize(data.PaperSize)
	require.NoError(t, err)

	html, err := NewTemplateEngine().Render(context.Background(), tmpl, data)
	require.NoError(t, err)
	return html
}

func TestTemplateEngine_RendersReceipt80mm(t *testing.T) {
	data, err := BuildReceiptData(testShop(), testInput(), ReceiptOptions{})
	require.NoError(t, err)

	html := renderDefaultReceipt(t, data)

	for _, want := range []string{
		"TASTY BITE",
		"MARAIKAR PALLIVASAL 2nd STREET",
		"TENKASI",
		"Phone: 7358921445, 7548881441",
		"Company name: Techverse infotech Private Limited",
		"GSTIN: _______________________",
		"Invoice No/Date: TB4821",
		"Date: 15/10/2026, 07:30:00 pm",
		"Customer Name: Anbu",
		"Cust Mobile No: 9876543210",
		"Chicken Biryani ...",
		"180.00",
		"360.00",
		"Rupees Three Hundred Seventy Five Only",
		"375.00",
		"THANK YOU, VISIT US AGAIN!",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "window.print()")
	assert.Equal(t, 3, strings.Count(html, ">0.00<"), "GST, sale and savings print as zero")
}

func TestTemplateEngine_ReceiptOptionalParts(t *testing.T) {
	in := testInput()
	in.CustomerPhone = ""
	shop := testShop()
	shop.GSTIN = "33ABCDE1234F1Z5"

	data, err := BuildReceiptData(shop, in, ReceiptOptions{AutoPrint: true})
	require.NoError(t, err)

	html := renderDefaultReceipt(t, data)

	assert.NotContains(t, html, "Cust Mobile No")
	assert.Contains(t, html, "GSTIN: 33ABCDE1234F1Z5")
	assert.Contains(t, html, "window.print()")
}

func TestTemplateEngine_AllPaperSizesRender(t *testing.T) {
	for _, size := range printing.AllPaperSizes() {
		t.Run(size.String(), func(t *testing.T) {
			data, err := BuildReceiptData(testShop(), testInput(), ReceiptOptions{PaperSize: size})
			require.NoError(t, err)
			html := renderDefaultReceipt(t, data)
			assert.Contains(t, html, "Invoice No/Date: TB4821")
		})
	}
}

func TestTemplateEngine_ReceiptA4(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		total    int64
		want     []string
	}{
		{
			name:     "lower case name is title cased",
			customer: "anbu selvan",
			total:    375,
			want:     []string{"Customer Name: Anbu Selvan", "₹375.00"},
		},
		{
			name:     "net payable uses lakh grouping",
			customer: "MEENA",
			total:    123456,
			want:     []string{"Customer Name: Meena", "₹1,23,456.00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			in.CustomerName = tt.customer
			in.Subtotal = decimal.NewFromInt(tt.total)
			in.TotalAmount = decimal.NewFromInt(tt.total)

			data, err := BuildReceiptData(testShop(), in, ReceiptOptions{PaperSize: printing.PaperSizeA4})
			require.NoError(t, err)

			html := renderDefaultReceipt(t, data)
			for _, want := range tt.want {
				assert.Contains(t, html, want)
			}
		})
	}
}

func TestTemplateEngine_RenderString_Errors(t *testing.T) {
	engine := NewTemplateEngine()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		content  string
		wantCode string
	}{
		{"empty content", context.Background(), "  ", ErrCodeInvalidHTML},
		{"parse failure", context.Background(), "{{if}}", ErrCodeInvalidHTML},
		{"execution failure", context.Background(), "{{.Missing.Field}}", ErrCodeRenderFailed},
		{"cancelled context", cancelled, "<p>ok</p>", ErrCodeRenderTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RenderString(tt.ctx, "t", tt.content, struct{ Missing *struct{ Field string } }{})
			require.Error(t, err)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.wantCode, renderErr.Code)
		})
	}
}

func TestTemplateEngine_Render_NilTemplate(t *testing.T) {
	_, err := NewTemplateEngine().Render(context.Background(), nil, nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplateNotFound, renderErr.Code)
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	engine := NewTemplateEngine(WithFuncs(map[string]any{
		"shout": func(s string) string { return s + "!" },
	}))
	out, err := engine.RenderString(context.Background(), "t", `{{shout "hi"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestTemplateEngine_Validate(t *testing.T) {
	engine := NewTemplateEngine()
	assert.NoError(t, engine.Validate(`{{formatAmount .Total}}`))
	assert.Error(t, engine.Validate(`{{unknownFunc .}}`))
}

func TestTemplateFuncs(t *testing.T) {
	t.Run("formatAmount", func(t *testing.T) {
		tests := []struct {
			in   any
			want string
		}{
			{decimal.RequireFromString("1234.5"), "1234.50"},
			{int64(7), "7.00"},
			{12, "12.00"},
			{"99.999", "100.00"},
			{"abc", "0.00"},
			{nil, "0.00"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, formatAmount(tt.in))
		}
	})

	t.Run("formatMoney uses Indian grouping", func(t *testing.T) {
		assert.Equal(t, "₹1,23,456.00", formatMoney(decimal.NewFromInt(123456)))
	})

	t.Run("amountInWords floors paise", func(t *testing.T) {
		words, err := amountInWords(decimal.RequireFromString("105.99"))
		require.NoError(t, err)
		assert.Equal(t, "One Hundred Five", words)
	})

	t.Run("truncate", func(t *testing.T) {
		assert.Equal(t, "Tea", truncate(16, "Tea"))
		assert.Equal(t, "Paneer Butter Ma...", truncate(16, "Paneer Butter Masala"))
		assert.Equal(t, "exactly sixteen!", truncate(16, "exactly sixteen!"))
		assert.Equal(t, "மசா...", truncate(3, "மசாலா"))
	})

	t.Run("formatDate", func(t *testing.T) {
		ts := time.Date(2026, 1, 2, 21, 4, 5, 0, time.UTC)
		assert.Equal(t, "02/01/2026, 09:04:05 pm", formatDate(ts))
		assert.Equal(t, "2026-01-02", formatDate(ts, "2006-01-02"))
		assert.Empty(t, formatDate(time.Time{}))
	})

	t.Run("default", func(t *testing.T) {
		assert.Equal(t, "n/a", defaultFunc("n/a", ""))
		assert.Equal(t, "n/a", defaultFunc("n/a", "   "))
		assert.Equal(t, "n/a", defaultFunc("n/a", nil))
		assert.Equal(t, "x", defaultFunc("n/a", "x"))
		assert.Equal(t, 0, defaultFunc(0, 0))
	})

	t.Run("title", func(t *testing.T) {
		assert.Equal(t, "Anbu Selvan", titleCase("anbu selvan"))
		assert.Equal(t, "Meena", titleCase("MEENA"))
		assert.Empty(t, titleCase(""))
	})

	t.Run("add", func(t *testing.T) {
		assert.Equal(t, 3, add(1, 2))
	})
}
