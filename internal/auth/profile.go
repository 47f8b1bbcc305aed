// Package auth covers the OAuth2 login flow and the mapping from provider
// profiles to internal student records.
package auth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// Profile is the provider-independent identity a login yields. Exactly one
// of OIDC/GitHub is set; Extract dispatches on the Provider tag rather than
// inspecting the payloads.
type Profile struct {
	Provider string
	OIDC     *OIDCClaims
	GitHub   *GitHubUser
}

// OIDCClaims is the subset of the standard userinfo response we read.
type OIDCClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// GitHubUser is the subset of the GitHub /user response we read. Email is
// empty when the account has no public email; the flow then asks
// /user/emails and, failing that, synthesizes a placeholder.
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity is what the rest of the system consumes.
type Identity struct {
	Provider string
	Email    string
	Name     string
}

// Extract pulls the identity out of a profile. For GitHub a missing email
// falls back to "{login}@github.local" so a login never aborts over email
// visibility; the name falls back to the login, and for both variants an
// empty name falls back to the email.
func (p Profile) Extract() (Identity, error) {
	var id Identity
	switch p.Provider {
	case ProviderGoogle:
		if p.OIDC == nil || p.OIDC.Email == "" {
			return id, fmt.Errorf("oidc profile has no email")
		}
		id = Identity{Provider: ProviderGoogle, Email: p.OIDC.Email, Name: p.OIDC.Name}
	case ProviderGitHub:
		if p.GitHub == nil || p.GitHub.Login == "" {
			return id, fmt.Errorf("github profile has no login")
		}
		email := p.GitHub.Email
		if email == "" {
			email = p.GitHub.Login + "@github.local"
		}
		name := p.GitHub.Name
		if name == "" {
			name = p.GitHub.Login
		}
		id = Identity{Provider: ProviderGitHub, Email: email, Name: name}
	default:
		return id, fmt.Errorf("unknown provider: %s", p.Provider)
	}

	if id.Name == "" {
		id.Name = id.Email
	}
	return id, nil
}

// ResolveStudent upserts the student record an identity maps to: lookup by
// email, create when absent, refresh the display name, and union the login
// provider into the student's provider set. Returns the student and whether
// it was just created.
func ResolveStudent(s store.Store, id Identity) (*models.Student, bool, error) {
	student, err := s.GetStudentByEmail(id.Email)
	if err != nil {
		return nil, false, err
	}

	created := false
	if student == nil {
		name := id.Name
		if name == "" {
			name = id.Email
		}
		student = &models.Student{
			ID:    uuid.New(),
			Name:  name,
			Email: id.Email,
		}
		if err := s.CreateStudent(student); err != nil {
			return nil, false, err
		}
		created = true
	} else if id.Name != "" && id.Name != student.Name {
		student.Name = id.Name
		if err := s.UpdateStudentName(student.ID, id.Name); err != nil {
			return nil, false, err
		}
	}

	// idempotent: ON CONFLICT DO NOTHING
	if err := s.AddStudentProvider(student.ID, id.Provider); err != nil {
		return nil, false, err
	}

	return student, created, nil
}
