package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"checkout/src/checkout/domain/entity"

	"github.com/jordan-wright/email"
)

const orderConfirmationTemplate = `
<html>
<body>
  <h2>¡Gracias por tu compra!</h2>
  <p>Tu orden <strong>{{.OrderID}}</strong> fue confirmada.</p>
  <table border="0" cellpadding="4">
    {{range .Items}}
    <tr>
      <td>{{.ProductName}}</td>
      <td>x{{.Quantity}}</td>
      <td>{{.Subtotal}}</td>
    </tr>
    {{end}}
  </table>
  <p>Subtotal: {{.Subtotal}}<br/>
     Envío: {{.DeliveryFee}}<br/>
     Impuestos: {{.Tax}}<br/>
     <strong>Total: {{.Total}}</strong></p>
</body>
</html>
`

// MailService envía el correo de confirmación de orden por SMTP
type MailService struct {
	fromName    string
	fromAddress string
	smtpHost    string
	smtpPort    string
	smtpAuth    smtp.Auth
	tmpl        *template.Template
}

// NewMailService crea una nueva instancia del servicio de correo
func NewMailService(fromName, fromAddress, password, smtpHost, smtpPort string) *MailService {
	var auth smtp.Auth
	if password != "" {
		auth = smtp.PlainAuth("", fromAddress, password, smtpHost)
	}

	return &MailService{
		fromName:    fromName,
		fromAddress: fromAddress,
		smtpHost:    smtpHost,
		smtpPort:    smtpPort,
		smtpAuth:    auth,
		tmpl:        template.Must(template.New("orderConfirmation").Parse(orderConfirmationTemplate)),
	}
}

// SendOrderConfirmation implementa port.MailSender
func (m *MailService) SendOrderConfirmation(_ context.Context, order *entity.Order) error {
	if order.CustomerEmail == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, order); err != nil {
		return fmt.Errorf("error rendering confirmation template: %w", err)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	e.To = []string{order.CustomerEmail}
	e.Subject = fmt.Sprintf("Confirmación de orden %s", order.OrderID)
	e.HTML = buf.Bytes()

	addr := m.smtpHost + ":" + m.smtpPort
	if err := e.Send(addr, m.smtpAuth); err != nil {
		return fmt.Errorf("error sending confirmation mail: %w", err)
	}
	return nil
}
