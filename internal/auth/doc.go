// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package auth provides credential registration and verification, stateless
// session-token issuance, and token-to-identity resolution for TaskVault.
//
// The package has no persistent state of its own: user records live behind
// the [UserRepository] interface, passwords behind [PasswordHasher], and
// session tokens behind [TokenIssuer]. Services compose these at startup.
package auth
