package goscroll

// Phase is the controller's position in its loading state machine.
type Phase int

const (
	// PhaseIdle no fetch has run yet, or the first one was cancelled.
	PhaseIdle Phase = iota
	// PhaseInitialLoading the first fetch is in flight.
	PhaseInitialLoading
	// PhaseLoaded the last fetch applied its page.
	PhaseLoaded
	// PhaseLoadingMore a continuation fetch is in flight.
	PhaseLoadingMore
	// PhaseReloading a reload fetch is in flight.
	PhaseReloading
	// PhaseErrored the last fetch failed.
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInitialLoading:
		return "initial-loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseReloading:
		return "reloading"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the controller. Data is shared between
// snapshots and must not be modified by the receiver.
type State[E, M any] struct {
	// Data accumulated result. Nil until the first page is applied.
	Data *Page[E, M]
	// Loading is true only while an initial or reload fetch is in flight.
	Loading bool
	// LoadingMore is true only while a continuation fetch is in flight.
	LoadingMore bool
	// Err is the failure of the most recent fetch. Cleared when the next fetch starts.
	Err error
	// NoMore is IsNoMore evaluated on the most recently applied Data.
	NoMore bool
	Phase  Phase
	// Generation identifies the latest fetch attempt.
	Generation uint64
}

// busy reports whether a fetch is in flight.
func (s *State[E, M]) busy() bool {
	return s.Loading || s.LoadingMore
}

// settledPhase is the phase to return to when no fetch is in flight.
func (s *State[E, M]) settledPhase() Phase {
	switch {
	case s.Err != nil:
		return PhaseErrored
	case s.Data != nil:
		return PhaseLoaded
	default:
		return PhaseIdle
	}
}
