package tracing

import (
	"github.com/sarchlab/cfgreplay/hooking"
)

// A list of hook poses for the hooks to apply to
var (
	HookPosTaskStart = &hooking.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &hooking.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &hooking.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask notifies the hooks that hook to the domain about the start of a
// task.
func StartTask(
	id string,
	parentID string,
	domain hooking.NamedHookable,
	tick uint64,
	kind string,
	what string,
	detail any,
) {
	if domain == nil {
		panic("domain must not be nil")
	}

	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, kind, what)
	domainMustHaveName(domain)

	task := Task{
		ID:        id,
		ParentID:  parentID,
		Kind:      kind,
		What:      what,
		Where:     domain.Name(),
		StartTick: tick,
		Detail:    detail,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStart,
		Tick:   tick,
		Item:   task,
	}
	domain.InvokeHook(ctx)
}

func allRequiredFieldsMustBeNotEmpty(id, kind, what string) {
	if id == "" {
		panic("id must not be empty")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

func domainMustHaveName(domain hooking.NamedHookable) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}
}

// AddTaskStep marks that a milestone has been reached when processing a task.
func AddTaskStep(
	id string,
	domain hooking.NamedHookable,
	tick uint64,
	what string,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID:    id,
		Steps: []TaskStep{{Tick: tick, What: what}},
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStep,
		Tick:   tick,
		Item:   task,
	}
	domain.InvokeHook(ctx)
}

// EndTask notifies the hooks about the end of a task.
func EndTask(
	id string,
	domain hooking.NamedHookable,
	tick uint64,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID:      id,
		EndTick: tick,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskEnd,
		Tick:   tick,
		Item:   task,
	}
	domain.InvokeHook(ctx)
}
