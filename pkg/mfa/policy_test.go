package mfa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/config"
)

func TestResolve(t *testing.T) {
	enrolled := Profile{EmailOTPEnabled: true, EmailOTPVerified: true}
	unverified := Profile{EmailOTPEnabled: true}

	tests := []struct {
		name    string
		cfg     config.MFAConfig
		profile Profile
		want    Decision
	}{
		{
			name:    "system disabled",
			cfg:     config.MFAConfig{Enabled: false, Mandatory: true},
			profile: enrolled,
			want:    Decision{},
		},
		{
			name:    "optional mode, unenrolled user",
			cfg:     config.MFAConfig{Enabled: true},
			profile: Profile{},
			want:    Decision{},
		},
		{
			name:    "optional mode, enrolled user",
			cfg:     config.MFAConfig{Enabled: true},
			profile: enrolled,
			want:    Decision{Required: true},
		},
		{
			name:    "mandatory mode, unenrolled user",
			cfg:     config.MFAConfig{Enabled: true, Mandatory: true},
			profile: Profile{},
			want:    Decision{Required: true, SetupRequired: true},
		},
		{
			name:    "mandatory mode, enrolled user",
			cfg:     config.MFAConfig{Enabled: true, Mandatory: true},
			profile: enrolled,
			want:    Decision{Required: true},
		},
		{
			name:    "enabled but unverified method does not count",
			cfg:     config.MFAConfig{Enabled: true, Mandatory: true},
			profile: unverified,
			want:    Decision{Required: true, SetupRequired: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.cfg, tt.profile))
		})
	}
}

func TestProfileEnabledMethods(t *testing.T) {
	p := Profile{
		TOTPEnabled:  true,
		TOTPVerified: true,
	}
	assert.Equal(t, []Method{MethodTOTP}, p.EnabledMethods())
	assert.True(t, p.HasEnabledMethod())

	p.EmailOTPEnabled = true
	p.EmailOTPVerified = true
	assert.Contains(t, p.EnabledMethods(), MethodEmailOTP)

	// Backup codes alone never make a user "enrolled".
	codesOnly := Profile{}
	assert.False(t, codesOnly.HasEnabledMethod())
}

func TestMethodValid(t *testing.T) {
	assert.True(t, MethodTOTP.Valid())
	assert.True(t, MethodEmailOTP.Valid())
	assert.True(t, MethodBackupCode.Valid())
	assert.False(t, Method("sms").Valid())
}
