// Package directory defines the user-directory collaborator consumed by the
// login flow: lookup by email and password verification. The MFA core never
// owns user records; hosts plug in their own implementation. An in-memory
// implementation is provided for tests and demo servers.
package directory
