package domain

// ProviderProfile holds the attributes a provider publishes about their business.
type ProviderProfile struct {
	BusinessName string   `json:"businessName,omitempty" bson:"business_name,omitempty"`
	ServiceType  string   `json:"serviceType,omitempty"  bson:"service_type,omitempty"`
	Experience   string   `json:"experience,omitempty"   bson:"experience,omitempty"`
	Availability string   `json:"availability,omitempty" bson:"availability,omitempty"`
	Skills       []string `json:"skills"                 bson:"skills,omitempty"`
	HourlyRate   float64  `json:"hourlyRate,omitempty"   bson:"hourly_rate,omitempty"`
}

// SeekerProfile holds what a seeker tells providers about their needs.
type SeekerProfile struct {
	Company            string  `json:"company,omitempty"            bson:"company,omitempty"`
	Industry           string  `json:"industry,omitempty"           bson:"industry,omitempty"`
	ProjectDescription string  `json:"projectDescription,omitempty" bson:"project_description,omitempty"`
	Budget             float64 `json:"budget,omitempty"             bson:"budget,omitempty"`
}

// Profile is the role-dependent part of an account. Both variants are kept
// so switching role does not lose data; the account's Role selects which
// one is active.
type Profile struct {
	Phone    string          `json:"phone,omitempty"    bson:"phone,omitempty"`
	Location string          `json:"location,omitempty" bson:"location,omitempty"`
	Provider ProviderProfile `json:"provider"           bson:"provider"`
	Seeker   SeekerProfile   `json:"seeker"             bson:"seeker"`
}

// ProviderPatch lists provider fields to change. Nil means "leave as is".
type ProviderPatch struct {
	BusinessName *string
	ServiceType  *string
	Experience   *string
	Availability *string
	Skills       *[]string
	HourlyRate   *float64
}

// SeekerPatch lists seeker fields to change. Nil means "leave as is".
type SeekerPatch struct {
	Company            *string
	Industry           *string
	ProjectDescription *string
	Budget             *float64
}

// ProfilePatch is a partial update of an account's identity and profile.
type ProfilePatch struct {
	Name     *string
	Phone    *string
	Location *string
	Provider ProviderPatch
	Seeker   SeekerPatch
}

// Merge applies p onto the provider variant.
func (p ProviderPatch) Merge(dst *ProviderProfile) {
	setString(&dst.BusinessName, p.BusinessName)
	setString(&dst.ServiceType, p.ServiceType)
	setString(&dst.Experience, p.Experience)
	setString(&dst.Availability, p.Availability)
	if p.Skills != nil {
		dst.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.HourlyRate != nil {
		dst.HourlyRate = *p.HourlyRate
	}
}

// Merge applies p onto the seeker variant.
func (p SeekerPatch) Merge(dst *SeekerProfile) {
	setString(&dst.Company, p.Company)
	setString(&dst.Industry, p.Industry)
	setString(&dst.ProjectDescription, p.ProjectDescription)
	if p.Budget != nil {
		dst.Budget = *p.Budget
	}
}

// ApplyProfilePatch merges patch into the account field by field. Fields
// absent from the patch are never cleared. ProfileComplete is recomputed.
func ApplyProfilePatch(a *Account, patch ProfilePatch) {
	setString(&a.Name, patch.Name)
	setString(&a.Profile.Phone, patch.Phone)
	setString(&a.Profile.Location, patch.Location)
	patch.Provider.Merge(&a.Profile.Provider)
	patch.Seeker.Merge(&a.Profile.Seeker)
	a.ProfileComplete = ProfileComplete(a)
}

// ProfileComplete reports whether the active profile variant carries every
// field its role requires.
func ProfileComplete(a *Account) bool {
	switch a.Role {
	case RoleProvider:
		p := a.Profile.Provider
		return p.BusinessName != "" && p.ServiceType != "" && p.Experience != "" && p.Availability != ""
	case RoleSeeker:
		return a.Name != "" && a.Email != "" && a.Profile.Phone != ""
	default:
		return false
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
