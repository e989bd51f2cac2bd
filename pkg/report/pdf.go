package report

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// PDFRenderer prints the HTML report through a headless Chrome instance.
type PDFRenderer struct {
	html    *HTMLRenderer
	timeout time.Duration
}

func NewPDFRenderer(timeout time.Duration) *PDFRenderer {
	return &PDFRenderer{html: NewHTMLRenderer(), timeout: timeout}
}

func (r *PDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	content, err := r.html.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var pdf []byte
	err = chromedp.Run(browserCtx, chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(content)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("printing report to PDF: %w", err)
	}
	log.Debugf("Printed report to PDF (%d bytes)", len(pdf))
	return pdf, nil
}

func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
