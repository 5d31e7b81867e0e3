package handler

import (
	"time"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// --- Requests ---

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	BusinessName string `json:"businessName"`
	ServiceType  string `json:"serviceType"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
	Company      string `json:"company"`
	Industry     string `json:"industry"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=provider seeker"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// updateProfileRequest is flat; absent fields are left untouched.
type updateProfileRequest struct {
	Name               *string   `json:"name"`
	PhoneNumber        *string   `json:"phoneNumber"`
	Location           *string   `json:"location"`
	BusinessName       *string   `json:"businessName"`
	ServiceType        *string   `json:"serviceType"`
	Experience         *string   `json:"experience"`
	Availability       *string   `json:"availability"`
	Skills             *[]string `json:"skills"`
	HourlyRate         *float64  `json:"hourlyRate"`
	Company            *string   `json:"company"`
	Industry           *string   `json:"industry"`
	ProjectDescription *string   `json:"projectDescription"`
	Budget             *float64  `json:"budget"`
}

// --- Responses ---

// accountResponse is the public view of an account. Credential material
// has no field here and therefore can never be serialized.
type accountResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	Profile         domain.Profile `json:"profile"`
	ProfileComplete bool           `json:"profileComplete"`
	Active          bool           `json:"active"`
	EmailVerified   bool           `json:"emailVerified"`
	LastLogin       *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type sessionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token"`
	User    accountResponse `json:"user"`
}

type accountEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    accountResponse `json:"user"`
}

type providerEnvelope struct {
	Success  bool            `json:"success"`
	Provider accountResponse `json:"provider"`
}

type providerListResponse struct {
	Success     bool              `json:"success"`
	Count       int               `json:"count"`
	Total       int64             `json:"total"`
	Pages       int               `json:"pages"`
	CurrentPage int               `json:"currentPage"`
	Providers   []accountResponse `json:"providers"`
}

// --- Mapping ---

func toSignupInput(req signupRequest) ports.SignupInput {
	return ports.SignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		BusinessName: req.BusinessName,
		ServiceType:  req.ServiceType,
		Experience:   req.Experience,
		Availability: req.Availability,
		Company:      req.Company,
		Industry:     req.Industry,
	}
}

func toProfilePatch(req updateProfileRequest) domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:     req.Name,
		Phone:    req.PhoneNumber,
		Location: req.Location,
		Provider: domain.ProviderPatch{
			BusinessName: req.BusinessName,
			ServiceType:  req.ServiceType,
			Experience:   req.Experience,
			Availability: req.Availability,
			Skills:       req.Skills,
			HourlyRate:   req.HourlyRate,
		},
		Seeker: domain.SeekerPatch{
			Company:            req.Company,
			Industry:           req.Industry,
			ProjectDescription: req.ProjectDescription,
			Budget:             req.Budget,
		},
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	profile := a.Profile
	if profile.Provider.Skills == nil {
		profile.Provider.Skills = []string{}
	}
	return accountResponse{
		ID:              a.ID,
		Name:            a.Name,
		Email:           a.Email,
		Role:            string(a.Role),
		Profile:         profile,
		ProfileComplete: a.ProfileComplete,
		Active:          a.Active,
		EmailVerified:   a.EmailVerified,
		LastLogin:       a.LastLogin,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAccountResponses(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}
