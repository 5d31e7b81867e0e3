package ports

import "context"

// ProviderSignup is the data the admin notification reports.
type ProviderSignup struct {
	Name         string
	Email        string
	BusinessName string
	ServiceType  string
	PhoneNumber  string
}

// ServiceRequest describes a seeker's interest in a professional's service.
type ServiceRequest struct {
	ProfessionalName string
	ServiceName      string
	RequesterName    string
	RequesterEmail   string
	Message          string
}

// Notifier sends best-effort email notifications. Implementations must not
// block on delivery; a returned error means the message was not queued.
type Notifier interface {
	SendWelcome(ctx context.Context, to, name, verificationToken string) error
	SendAdminNotification(ctx context.Context, signup ProviderSignup) error
	SendServiceRequestNotification(ctx context.Context, professionalEmail string, req ServiceRequest) error
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}
