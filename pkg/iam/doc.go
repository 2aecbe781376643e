// Package iam groups identity and access management for the expense tracker.
//
// Sub-packages:
//
//   - iam/signup    : three-stage signup (credentials, email OTP, profile)
//   - iam/account   : accounts, credentials, subscriptions and login
//   - iam/auth      : JWT access tokens, refresh tokens, fiber middleware
//   - iam/otp       : verification codes and opaque random tokens
//   - iam/scopes    : the static plan to permission table
//
// Each context follows the same layering:
//
//	HTTP Handler (…api) → Service (…srv) → Port interfaces → Infrastructure (…infra)
//
// and owns an errx registry ("SIGNUP", "ACCOUNT", "AUTH", "OTP"). Handlers
// return *errx.Error values and let the server's error handler render them.
//
// Ephemeral state (signup stages, refresh tokens) lives in a cachex.Store;
// durable state (accounts, credentials, subscriptions) lives in Postgres and
// is written in a single transaction when an account is provisioned.
package iam
