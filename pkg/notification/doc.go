// Package notification delivers user-facing notices (one-time login codes,
// backup code sets) through pluggable channels. The NotificationManager keeps
// a registry of notice templates per delivery system and routes each Send to
// the matching notifier. An SMTP notifier built on wneessen/go-mail is
// provided; tests use MockNotifier.
package notification
