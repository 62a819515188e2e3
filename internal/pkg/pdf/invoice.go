// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Service renders order invoices as PDF via wkhtmltopdf
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

type invoiceData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	Order          *order.Order
	Address        *user.Address
}

// GenerateInvoice renders an invoice PDF for a completed order
func (s *Service) GenerateInvoice(ord *order.Order, address *user.Address) ([]byte, error) {
	html, err := s.renderHTML(ord, address)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(15)
	pdfg.MarginBottom.Set(15)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

func (s *Service) renderHTML(ord *order.Order, address *user.Address) ([]byte, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}

	data := invoiceData{
		CompanyName:    s.config.App.CompanyName,
		CompanyAddress: s.config.App.CompanyAddress,
		CompanyEmail:   s.config.App.CompanyEmail,
		Order:          ord,
		Address:        address,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute invoice template: %w", err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; font-size: 13px; }
  h1 { font-size: 22px; margin-bottom: 2px; }
  .muted { color: #777; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 8px 6px; border-bottom: 1px solid #ddd; }
  th { background: #f5f5f5; }
  .right { text-align: right; }
  .total { font-weight: bold; font-size: 15px; }
</style>
</head>
<body>
  <h1>{{.CompanyName}}</h1>
  <div class="muted">{{.CompanyAddress}}<br>{{.CompanyEmail}}</div>

  <table>
    <tr><td><strong>Invoice for order</strong> {{.Order.OrderNumber}}</td>
        <td class="right">{{.Order.OrderDate.Format "02 Jan 2006"}}</td></tr>
    <tr><td>Billed to: {{.Order.Email}}</td>
        <td class="right">Status: {{.Order.Status}}</td></tr>
  </table>

  {{if .Address}}
  <p class="muted">
    Ship to: {{.Address.Street}}{{if .Address.Building}}, {{.Address.Building}}{{end}},
    {{.Address.City}}{{if .Address.State}}, {{.Address.State}}{{end}},
    {{.Address.Country}} {{.Address.Pincode}}
  </p>
  {{end}}

  <table>
    <tr><th>Product</th><th class="right">Qty</th><th class="right">Unit price</th><th class="right">Discount %</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>#{{.ProductID}}</td>
      <td class="right">{{.Quantity}}</td>
      <td class="right">{{.OrderedProductPrice}}</td>
      <td class="right">{{.Discount}}</td>
    </tr>
    {{end}}
    <tr><td colspan="3" class="right total">Total</td><td class="right total">{{.Order.TotalAmount}}</td></tr>
  </table>

  {{if .Order.Payment}}
  <p class="muted">Paid via {{.Order.Payment.Method}}{{if .Order.Payment.GatewayName}} ({{.Order.Payment.GatewayName}}){{end}}</p>
  {{end}}
</body>
</html>`
