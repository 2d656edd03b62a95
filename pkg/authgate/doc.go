// Package authgate orchestrates the password-plus-second-factor login
// flow. It checks credentials against the user directory, asks the MFA
// policy whether a challenge is needed, issues challenge and access
// tokens, and gates every verification attempt behind the account-level
// lockout check.
package authgate
