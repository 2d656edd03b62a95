// Package config holds the immutable configuration values consumed by the
// MFA core. Configuration is loaded once at process start and passed
// explicitly into services; no package reads ambient environment state after
// construction.
package config
