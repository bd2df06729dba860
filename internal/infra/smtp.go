package infra

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/hvilloria/simple-stock/internal/config"
)

// SMTPMailer envía mails de texto plano vía SMTP. Implementa service.Mailer.
type SMTPMailer struct {
	host     string
	user     string
	password string
	addr     string
}

// NewMailer devuelve nil si no hay host SMTP configurado: el envío de
// resúmenes queda deshabilitado sin tocar el resto del sistema.
func NewMailer(cfg *config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *SMTPMailer) EnviarResumenPago(_ context.Context, destinatario, asunto, cuerpo string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{destinatario}
	e.Subject = asunto
	e.Text = []byte(cuerpo)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
