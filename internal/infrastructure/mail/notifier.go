package mail

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gofix/gofix-api/internal/core/ports"
	"github.com/gofix/gofix-api/internal/infrastructure/queue"
)

// Job kinds, also used as metric labels.
const (
	KindWelcome        = "welcome"
	KindAdmin          = "admin"
	KindServiceRequest = "service_request"
	KindPasswordReset  = "password_reset"
)

var errMissingFields = errors.New("missing required fields for email")

// Enqueuer accepts jobs without blocking.
type Enqueuer interface {
	Enqueue(job queue.Job) error
}

// Notifier renders the transactional emails and hands them to the queue.
type Notifier struct {
	queue      Enqueuer
	adminEmail string
	baseURL    string
	resetTTL   string
	log        zerolog.Logger
}

func NewNotifier(q Enqueuer, adminEmail, baseURL string, log zerolog.Logger) *Notifier {
	return &Notifier{
		queue:      q,
		adminEmail: adminEmail,
		baseURL:    strings.TrimRight(baseURL, "/"),
		resetTTL:   "10 minutes",
		log:        log,
	}
}

var _ ports.Notifier = (*Notifier)(nil)

func (n *Notifier) SendWelcome(_ context.Context, to, name, verificationToken string) error {
	if to == "" || name == "" || verificationToken == "" {
		return fmt.Errorf("welcome: %w", errMissingFields)
	}
	html, err := render(welcomeTemplate, struct{ Name, URL string }{
		Name: name,
		URL:  n.link("verify", verificationToken),
	})
	if err != nil {
		return fmt.Errorf("welcome: %w", err)
	}
	return n.queue.Enqueue(queue.Job{Kind: KindWelcome, To: to, Subject: "Welcome - Please Verify Your Email", HTML: html})
}

func (n *Notifier) SendAdminNotification(_ context.Context, signup ports.ProviderSignup) error {
	if n.adminEmail == "" {
		n.log.Debug().Msg("admin email not configured, skipping provider notification")
		return nil
	}
	if signup.Email == "" || signup.BusinessName == "" {
		return fmt.Errorf("admin notification: %w", errMissingFields)
	}
	html, err := render(adminTemplate, signup)
	if err != nil {
		return fmt.Errorf("admin notification: %w", err)
	}
	return n.queue.Enqueue(queue.Job{Kind: KindAdmin, To: n.adminEmail, Subject: "New Service Provider Registration", HTML: html})
}

func (n *Notifier) SendServiceRequestNotification(_ context.Context, professionalEmail string, req ports.ServiceRequest) error {
	if professionalEmail == "" || req.ServiceName == "" || req.ProfessionalName == "" {
		return fmt.Errorf("service request: %w", errMissingFields)
	}
	html, err := render(requestTemplate, req)
	if err != nil {
		return fmt.Errorf("service request: %w", err)
	}
	return n.queue.Enqueue(queue.Job{Kind: KindServiceRequest, To: professionalEmail, Subject: "New Service Request", HTML: html})
}

func (n *Notifier) SendPasswordReset(_ context.Context, to, resetToken string) error {
	if to == "" || resetToken == "" {
		return fmt.Errorf("password reset: %w", errMissingFields)
	}
	html, err := render(resetTemplate, struct{ URL, Expires string }{
		URL:     n.link("reset-password", resetToken),
		Expires: n.resetTTL,
	})
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	return n.queue.Enqueue(queue.Job{Kind: KindPasswordReset, To: to, Subject: "Password Reset Request", HTML: html})
}

func (n *Notifier) link(path, token string) string {
	return n.baseURL + "/" + path + "/" + url.PathEscape(token)
}
