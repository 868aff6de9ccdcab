package pkg

import "gopkg.in/gomail.v2"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer 管理端告警邮件，未配置 Host 时为空操作
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}
