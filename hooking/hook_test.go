package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHook struct {
	items []any
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.items = append(h.items, ctx.Item)
}

var _ = Describe("HookableBase", func() {
	var (
		hookable *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		hookable = &HookableBase{}
		pos = &HookPos{Name: "Somewhere"}
	})

	It("should fire attached hooks in attachment order", func() {
		first := &recordingHook{}
		second := &recordingHook{}

		hookable.AcceptHook(first)
		hookable.AcceptHook(second)

		hookable.InvokeHook(HookCtx{Pos: pos, Item: 42})

		Expect(hookable.Hooks()).To(HaveLen(2))
		Expect(first.items).To(Equal([]any{42}))
		Expect(second.items).To(Equal([]any{42}))
	})

	It("should refuse to attach the same hook twice", func() {
		hook := &recordingHook{}
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should fire no hooks when none are attached", func() {
		Expect(func() {
			hookable.InvokeHook(HookCtx{Pos: pos})
		}).ToNot(Panic())
	})
})
