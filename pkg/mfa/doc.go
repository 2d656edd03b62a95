// Package mfa owns per-user second-factor state: which methods are
// enrolled, the TOTP secret, backup code hashes, and the policy that
// decides whether a login must be challenged.
//
// The Service is the write path for enrollment. Enabling a method
// always requires proof of possession first (a verified TOTP passcode
// or a completed email code round trip), and disabling or regenerating
// backup codes requires the account password again.
package mfa
