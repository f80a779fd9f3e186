// Package tokenctl implements the operator commands of the token provider:
// applying migrations, purging expired renewal records and inspecting
// access tokens.
package tokenctl
