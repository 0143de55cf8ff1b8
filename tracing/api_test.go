package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/cfgreplay/hooking"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with hooks attached", func() {
		BeforeEach(func() {
			domain.EXPECT().NumHooks().Return(1).AnyTimes()
		})

		It("should panic if ID is not given", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("", "", domain, 0, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if domain's name is empty", func() {
			domain.EXPECT().Name().Return("").AnyTimes()
			Expect(func() {
				StartTask("id", "", domain, 0, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if kind is empty", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("id", "", domain, 0, "", "what", nil)
			}).Should(Panic())
		})

		It("should panic if what is empty", func() {
			domain.EXPECT().Name().Return("domain").AnyTimes()
			Expect(func() {
				StartTask("id", "", domain, 0, "kind", "", nil)
			}).Should(Panic())
		})

		It("should invoke the start hook with a complete task", func() {
			domain.EXPECT().Name().Return("bus").AnyTimes()
			domain.EXPECT().InvokeHook(gomock.Any()).
				Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))
					Expect(ctx.Tick).To(Equal(uint64(130)))

					task := ctx.Item.(Task)
					Expect(task.ID).To(Equal("t1"))
					Expect(task.Where).To(Equal("bus"))
					Expect(task.StartTick).To(Equal(uint64(130)))
				})

			StartTask("t1", "", domain, 130, "write", "0x4", nil)
		})

		It("should invoke the end hook", func() {
			domain.EXPECT().InvokeHook(gomock.Any()).
				Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
					Expect(ctx.Item.(Task).EndTick).To(Equal(uint64(140)))
				})

			EndTask("t1", domain, 140)
		})

		It("should invoke the step hook", func() {
			domain.EXPECT().InvokeHook(gomock.Any()).
				Do(func(ctx hooking.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))
					Expect(ctx.Item.(Task).Steps).To(ConsistOf(
						TaskStep{Tick: 135, What: "address accepted"}))
				})

			AddTaskStep("t1", domain, 135, "address accepted")
		})
	})

	It("should panic if domain is nil", func() {
		Expect(func() {
			StartTask("id", "", nil, 0, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should not build tasks when no hook is attached", func() {
		domain.EXPECT().NumHooks().Return(0).AnyTimes()

		StartTask("", "", domain, 0, "", "", nil)
		EndTask("id", domain, 0)
	})
})
