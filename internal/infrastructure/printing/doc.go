// Package printing turns bills into printable receipts.
//
// A receipt is produced in three steps: a DataProvider builds ReceiptData for a
// bill, the TemplateEngine renders it into HTML with one of the embedded
// receipt templates, and a PDFRenderer (headless Chrome via chromedp) prints
// the HTML to PDF. PDFStorage keeps the generated files on disk or in S3.
//
//	engine := NewTemplateEngine()
//	tmpl, err := store.ForPaperSize(printing.PaperSizeReceipt80MM)
//	if err != nil {
//	    return err
//	}
//	html, err := engine.Render(ctx, tmpl, data)
//	if err != nil {
//	    return err
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: tmpl.PaperSize,
//	    Margins:   tmpl.Margins,
//	})
package printing
