package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/gofix/gofix-api/internal/core/domain"
)

const (
	maxAttempts = 3
	baseBackoff = time.Second
)

// ErrInvalidRecipient is returned without any delivery attempt when the
// address is not syntactically valid.
var ErrInvalidRecipient = errors.New("invalid recipient address")

// Transport hands one message to the relay.
type Transport interface {
	Deliver(ctx context.Context, to, subject, html string) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPTransport delivers through an SMTP relay with gomail.
type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

func (t *SMTPTransport) Deliver(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	return t.dialer.DialAndSend(m)
}

// LogTransport only logs the message. Used when no relay is configured.
type LogTransport struct {
	log zerolog.Logger
}

func NewLogTransport(log zerolog.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Deliver(_ context.Context, to, subject, _ string) error {
	t.log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, email not sent")
	return nil
}

// Mailer validates the recipient and retries delivery with linear backoff.
type Mailer struct {
	transport Transport
	log       zerolog.Logger
	attempts  int
	backoff   time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewMailer(transport Transport, log zerolog.Logger) *Mailer {
	return &Mailer{
		transport: transport,
		log:       log,
		attempts:  maxAttempts,
		backoff:   baseBackoff,
		sleep:     sleepCtx,
	}
}

// Send makes at most three attempts, waiting attempt×1s between them, and
// returns the last error when all fail.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if !domain.ValidEmail(to) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		lastErr = m.transport.Deliver(ctx, to, subject, html)
		if lastErr == nil {
			if attempt > 1 {
				m.log.Info().Int("attempt", attempt).Str("subject", subject).Msg("email sent after retry")
			}
			return nil
		}
		m.log.Warn().Err(lastErr).Int("attempt", attempt).Str("subject", subject).Msg("email attempt failed")
		if attempt == m.attempts {
			break
		}
		if err := m.sleep(ctx, time.Duration(attempt)*m.backoff); err != nil {
			return fmt.Errorf("send email: %w", err)
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", m.attempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
