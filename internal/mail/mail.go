// AngelaMos | 2026
// mail.go

package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	simplemail "github.com/xhit/go-simple-mail/v2"

	"github.com/carterperez-dev/eatme/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type welcomeData struct {
	AppName string
	Email   string
}

// Notifier sends account mail over SMTP. A disabled notifier accepts
// every message and sends nothing.
type Notifier struct {
	cfg     config.MailConfig
	appName string
	logger  *slog.Logger
}

func NewNotifier(cfg config.MailConfig, appName string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if appName == "" {
		appName = "EatMe"
	}
	return &Notifier{cfg: cfg, appName: appName, logger: logger}
}

func (n *Notifier) SendWelcome(ctx context.Context, to string) error {
	if !n.cfg.Enabled {
		n.logger.Debug("mail disabled, skipping welcome", "to", to)
		return nil
	}

	msg, err := n.welcome(to)
	if err != nil {
		return err
	}

	return n.send(ctx, msg)
}

func (n *Notifier) welcome(to string) (*simplemail.Email, error) {
	var body bytes.Buffer
	err := templates.ExecuteTemplate(&body, "welcome.html", welcomeData{
		AppName: n.appName,
		Email:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("render welcome: %w", err)
	}

	fromName := n.cfg.FromName
	if fromName == "" {
		fromName = n.appName
	}

	msg := simplemail.NewMSG().
		SetFrom(fmt.Sprintf("%s <%s>", fromName, n.cfg.FromEmail)).
		AddTo(to).
		SetSubject("Welcome to " + n.appName).
		SetBody(simplemail.TextHTML, body.String())
	if msg.Error != nil {
		return nil, fmt.Errorf("compose welcome: %w", msg.Error)
	}

	return msg, nil
}

func (n *Notifier) send(ctx context.Context, msg *simplemail.Email) error {
	server := simplemail.NewSMTPClient()
	server.Host = n.cfg.SMTPHost
	server.Port = n.cfg.SMTPPort
	server.Username = n.cfg.Username
	server.Password = n.cfg.Password

	switch {
	case n.cfg.UseSSL:
		server.Encryption = simplemail.EncryptionSSLTLS
	case n.cfg.UseTLS:
		server.Encryption = simplemail.EncryptionSTARTTLS
	default:
		server.Encryption = simplemail.EncryptionNone
	}

	if n.cfg.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < server.SendTimeout {
			server.SendTimeout = remaining
		}
	}

	client, err := server.Connect()
	if err != nil {
		return fmt.Errorf("connect smtp: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			n.logger.Warn("close smtp client", "error", closeErr)
		}
	}()

	if err := msg.Send(client); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	n.logger.Info("mail sent", "to", msg.GetRecipients(), "subject", "welcome")
	return nil
}
