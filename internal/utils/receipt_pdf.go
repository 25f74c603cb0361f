package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"time"

	"flexgym_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	// format EPC basique
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderReceiptPDF charge la page reçu du front et l'imprime en PDF.
// frontendURL doit ressembler à : http://localhost:3000/receipt
func RenderReceiptPDF(frontendURL, paymentID, qrBase64 string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", paymentID)
	q.Set("qr", qrBase64)

	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// GenerateReceiptPDF génère le reçu PDF d'un paiement, QR SEPA inclus.
func GenerateReceiptPDF(p models.Payment) ([]byte, error) {
	iban := os.Getenv("COMPANY_IBAN")
	if iban == "" {
		iban = "FR7612345678901234567890123"
	}
	bic := os.Getenv("COMPANY_BIC")
	if bic == "" {
		bic = "BNPAFRPP"
	}
	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "FlexGym SAS"
	}
	ref := fmt.Sprintf("RECU-%s", p.ID.Hex())

	qrBase64, err := GenerateSepaQR(iban, bic, companyName, ref, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	return RenderReceiptPDF(getFrontendReceiptBaseURL(), p.ID.Hex(), qrBase64)
}

func getFrontendReceiptBaseURL() string {
	u := os.Getenv("FRONTEND_RECEIPT_URL")
	if u == "" {
		// fallback dev local
		return "http://localhost:3000/receipt"
	}
	return u
}
