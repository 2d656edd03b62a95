// Package emailotp delivers short-lived one-time codes over email and
// verifies them against a stored challenge.
//
// Each user has at most one live challenge. Sending a new code
// supersedes any earlier one. Only a SHA-256 digest of the code is
// stored; verification compares digests and tracks per-code attempts,
// consuming the challenge once the cap is reached or the code matches.
package emailotp
