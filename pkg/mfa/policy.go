package mfa

import (
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/config"
)

// Decision is the policy outcome for one login.
type Decision struct {
	// Required means the login must complete a second-factor challenge.
	Required bool
	// SetupRequired means the user has no enrolled method and must
	// enroll one before the challenge can be completed.
	SetupRequired bool
}

// Resolve decides whether a login must be challenged given the
// system-wide configuration and the user's enrollment state.
//
// With the system switch off, nothing is ever required. With it on, an
// enrolled user is always challenged; an unenrolled user is challenged
// only in mandatory mode, and then must enroll first.
func Resolve(cfg config.MFAConfig, profile Profile) Decision {
	if !cfg.Enabled {
		return Decision{}
	}
	if !profile.HasEnabledMethod() {
		if cfg.Mandatory {
			return Decision{Required: true, SetupRequired: true}
		}
		return Decision{}
	}
	return Decision{Required: true}
}
