// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package scenario_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/taskvault/taskvault/pkg/errutil"
)

var _ = Describe("Authentication flow", func() {
	var ctx context.Context
	var env *testEnv

	BeforeEach(func() {
		ctx = context.Background()
		env = newTestEnv()
	})

	Describe("Registering and returning", func() {
		It("resolves the registration token back to the same identity", func() {
			result, err := env.Auth.Register(ctx, "alice@example.com", "password123", "Alice")
			Expect(err).NotTo(HaveOccurred())

			user, err := env.Auth.ResolveIdentity(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID.String()).To(Equal(result.User.ID))
			Expect(user.Email).To(Equal("alice@example.com"))
		})

		It("lets a registered user log in later with the same credentials", func() {
			_, err := env.Auth.Register(ctx, "alice@example.com", "password123", "Alice")
			Expect(err).NotTo(HaveOccurred())

			result, err := env.Auth.Login(ctx, "alice@example.com", "password123")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
		})

		It("rejects a second registration with the same email", func() {
			_, err := env.Auth.Register(ctx, "alice@example.com", "password123", "Alice")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Auth.Register(ctx, "alice@example.com", "otherpassword", "Imposter")
			Expect(err).To(HaveOccurred())
			Expect(errutil.CodeOf(err)).To(Equal("AUTH_DUPLICATE_EMAIL"))
		})
	})

	Describe("Failed logins", func() {
		BeforeEach(func() {
			_, err := env.Auth.Register(ctx, "alice@example.com", "password123", "Alice")
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not reveal whether the email or the password was wrong", func() {
			_, wrongPass := env.Auth.Login(ctx, "alice@example.com", "wrongpassword")
			_, unknown := env.Auth.Login(ctx, "nobody@example.com", "password123")

			Expect(wrongPass).To(HaveOccurred())
			Expect(unknown).To(HaveOccurred())
			Expect(wrongPass.Error()).To(Equal(unknown.Error()))
			Expect(errutil.CodeOf(wrongPass)).To(Equal("AUTH_INVALID_CREDENTIALS"))
			Expect(errutil.CodeOf(unknown)).To(Equal("AUTH_INVALID_CREDENTIALS"))
		})
	})

	Describe("Token lifecycle", func() {
		It("stops honoring tokens once the account is gone", func() {
			result, err := env.Auth.Register(ctx, "alice@example.com", "password123", "Alice")
			Expect(err).NotTo(HaveOccurred())

			user, err := env.Auth.ResolveIdentity(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())

			env.Users.Delete(user.ID)

			_, err = env.Auth.ResolveIdentity(ctx, result.Token)
			Expect(err).To(HaveOccurred())
			Expect(errutil.CodeOf(err)).To(Equal("AUTH_UNAUTHENTICATED"))
		})
	})
})
