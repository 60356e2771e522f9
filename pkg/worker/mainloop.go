package worker

import "sync/atomic"

// mainWorker is the process-wide fallback dispatch target. It is explicit
// global state with init/reset semantics; concurrent RunMain calls are not
// synchronized against each other, the last store wins.
var mainWorker atomic.Pointer[Worker]

// RunMain spawns a worker, publishes it as the process-wide main dispatch
// target, and blocks the caller until that worker exits — effectively
// forever unless the worker is stopped. Calling RunMain again replaces the
// singleton with a fresh worker.
func RunMain() {
	w := Spawn(nil)
	mainWorker.Store(w)
	<-w.Done()
}

// Main returns the current main worker, or nil before RunMain has run.
func Main() *Worker {
	return mainWorker.Load()
}

// ResetMain stops the current main worker (if any), waits for it to exit,
// and clears the singleton. Intended for tests that need isolated global
// state.
func ResetMain() {
	w := mainWorker.Swap(nil)
	if w == nil {
		return
	}
	w.Stop()
	<-w.Done()
}
