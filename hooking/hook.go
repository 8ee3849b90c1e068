// Package hooking lets observers watch bus activity without changing
// the components that produce it. The protocol engine and the bus
// controller embed HookableBase and report each exchange at a named
// position; tracers implement Hook and attach with AcceptHook.
package hooking

// A HookPos names the position in a component at which a hook fires.
// Positions are compared by identity, so each one is declared once as
// a package-level variable.
type HookPos struct {
	Name string
}

// A HookCtx describes one firing: the component it came from, the
// position, and the position-specific item (a transaction or an
// operation record).
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
}

// A Hook observes firings.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is a component that hooks can attach to.
type Hookable interface {
	AcceptHook(hook Hook)
	Hooks() []Hook
}

// HookableBase implements Hookable for embedding.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook attaches a hook. Attaching the same hook twice panics,
// since it would record every firing twice.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, attached := range h.hooks {
		if attached == hook {
			panic("hook is already attached")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// Hooks returns the attached hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook fires all attached hooks, in attachment order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
