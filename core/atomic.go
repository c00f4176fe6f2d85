package core

// Atomic runs body with interrupts globally masked. The previous mask state
// is restored on every exit path, including a panic unwinding out of body.
//
// This is the only synchronization between the main loop and interrupt
// handlers: read-modify-write sequences on shared registers go through it.
func Atomic(body func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	body()
}
