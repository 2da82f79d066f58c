// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

package scenario_test

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/taskvault/taskvault/internal/task"
	"github.com/taskvault/taskvault/pkg/errutil"
)

var _ = Describe("Task ownership flow", func() {
	var ctx context.Context
	var env *testEnv
	var alice, bob ulid.ULID

	registerUser := func(email, name string) ulid.ULID {
		result, err := env.Auth.Register(ctx, email, "password123", name)
		Expect(err).NotTo(HaveOccurred())
		id, err := ulid.Parse(result.User.ID)
		Expect(err).NotTo(HaveOccurred())
		return id
	}

	BeforeEach(func() {
		ctx = context.Background()
		env = newTestEnv()
		alice = registerUser("alice@example.com", "Alice")
		bob = registerUser("bob@example.com", "Bob")
	})

	Describe("Cross-user access", func() {
		var taskID ulid.ULID

		BeforeEach(func() {
			created, err := env.TaskSvc.Create(ctx, task.CreateInput{Title: "alice's task"}, alice)
			Expect(err).NotTo(HaveOccurred())
			taskID = created.ID
		})

		It("forbids another user from reading the task", func() {
			_, err := env.TaskSvc.Get(ctx, taskID, bob)
			Expect(errutil.CodeOf(err)).To(Equal("TASK_FORBIDDEN"))
		})

		It("forbids another user from updating the task", func() {
			title := "hijacked"
			_, err := env.TaskSvc.Update(ctx, taskID, task.UpdateInput{Title: &title}, bob)
			Expect(errutil.CodeOf(err)).To(Equal("TASK_FORBIDDEN"))

			got, err := env.TaskSvc.Get(ctx, taskID, alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("alice's task"))
		})

		It("forbids another user from deleting the task", func() {
			err := env.TaskSvc.Delete(ctx, taskID, bob)
			Expect(errutil.CodeOf(err)).To(Equal("TASK_FORBIDDEN"))

			_, err = env.TaskSvc.Get(ctx, taskID, alice)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps each user's listing scoped to their own tasks", func() {
			_, err := env.TaskSvc.Create(ctx, task.CreateInput{Title: "bob's task"}, bob)
			Expect(err).NotTo(HaveOccurred())

			alicePage, err := env.TaskSvc.List(ctx, alice, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(alicePage.Data).To(HaveLen(1))
			Expect(alicePage.Data[0].OwnerID).To(Equal(alice))

			bobPage, err := env.TaskSvc.List(ctx, bob, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(bobPage.Data).To(HaveLen(1))
			Expect(bobPage.Data[0].OwnerID).To(Equal(bob))
		})
	})

	Describe("Pagination", func() {
		BeforeEach(func() {
			for i := 0; i < 25; i++ {
				_, err := env.TaskSvc.Create(ctx, task.CreateInput{Title: fmt.Sprintf("task %d", i)}, alice)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("walks 25 tasks in three pages of ten", func() {
			page1, err := env.TaskSvc.List(ctx, alice, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page1.Data).To(HaveLen(10))
			Expect(page1.Meta.Total).To(Equal(25))
			Expect(page1.Meta.TotalPages).To(Equal(3))

			page3, err := env.TaskSvc.List(ctx, alice, 3, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page3.Data).To(HaveLen(5))

			page4, err := env.TaskSvc.List(ctx, alice, 4, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page4.Data).To(BeEmpty())
		})

		It("never repeats or drops a task across pages", func() {
			seen := map[ulid.ULID]bool{}
			for page := 1; page <= 3; page++ {
				result, err := env.TaskSvc.List(ctx, alice, page, 10)
				Expect(err).NotTo(HaveOccurred())
				for _, item := range result.Data {
					Expect(seen[item.ID]).To(BeFalse(), "task repeated across pages")
					seen[item.ID] = true
				}
			}
			Expect(seen).To(HaveLen(25))
		})
	})

	Describe("Deletion", func() {
		It("fails the second delete of the same task", func() {
			created, err := env.TaskSvc.Create(ctx, task.CreateInput{Title: "once only"}, alice)
			Expect(err).NotTo(HaveOccurred())

			Expect(env.TaskSvc.Delete(ctx, created.ID, alice)).To(Succeed())

			err = env.TaskSvc.Delete(ctx, created.ID, alice)
			Expect(errutil.CodeOf(err)).To(Equal("TASK_NOT_FOUND"))
		})
	})
})
