package onboarding

import (
	"errors"
	"sync"
	"time"

	"lexi/internal/analytics"
	"lexi/internal/catalog"
	"lexi/internal/feedback"
	"lexi/internal/logging"
	"lexi/internal/profile"
	"lexi/internal/store"
)

// FlowState is the coarse state overlaying the current step.
type FlowState int

const (
	FlowActive FlowState = iota
	FlowCompleted
	FlowError
	FlowPaused
)

// ErrorState classifies the last recoverable failure for the presentation
// layer. Storage failures degrade the flow to in-memory operation; they never
// terminate it.
type ErrorState int

const (
	ErrorNone ErrorState = iota
	ErrorLoadFailed
	ErrorSaveFailed
	ErrorOperationFailed
	ErrorValidationFailed
)

// Gateway is the slice of the store the flow needs. *store.Store satisfies
// it; tests substitute fakes.
type Gateway interface {
	SaveProfile(rec *store.ProfileRecord) error
	FetchProfile() (*store.ProfileRecord, error)
	ClearProfile() error
}

// Snapshot is the immutable state published to observers after every
// transition. The snapshot is the flow's public surface; views never reach
// into controller fields.
type Snapshot struct {
	Step        Step
	FlowState   FlowState
	ErrorState  ErrorState
	Profile     *profile.Profile
	Completion  float64
	StepSeconds map[string]float64
	CanRetreat  bool
	CanSkip     bool
}

// Config wires a Flow's collaborators. Nil collaborators default to no-ops.
type Config struct {
	Gateway    Gateway
	Feedback   feedback.Provider
	Analytics  analytics.Tracker
	OnComplete func()
	// Clock is substituted in tests; defaults to time.Now.
	Clock func() time.Time
	// AllowBack enables retreat; product default is on.
	AllowBack bool
}

// Flow owns the in-memory profile for the duration of onboarding and drives
// all transitions. User actions arrive serialized from the UI; the mutex
// exists only because persistence failures report back from save goroutines.
type Flow struct {
	mu sync.Mutex

	gateway   Gateway
	fb        feedback.Provider
	tracker   analytics.Tracker
	onDone    func()
	clock     func() time.Time
	allowBack bool

	prof        *profile.Profile
	current     Step
	flowState   FlowState
	errState    ErrorState
	history     []Step
	stepEntered time.Time
	stepSeconds map[string]float64
	doneFired   bool

	observers []func(Snapshot)
	saves     sync.WaitGroup
	saveTail  chan struct{}
}

// NewFlow constructs the controller and computes the starting step from any
// persisted record.
func NewFlow(cfg Config) *Flow {
	f := &Flow{
		gateway:     cfg.Gateway,
		fb:          cfg.Feedback,
		tracker:     cfg.Analytics,
		onDone:      cfg.OnComplete,
		clock:       cfg.Clock,
		allowBack:   cfg.AllowBack,
		prof:        profile.New(),
		current:     StepReferral,
		flowState:   FlowActive,
		stepSeconds: make(map[string]float64),
	}
	if f.fb == nil {
		f.fb = feedback.Noop{}
	}
	if f.tracker == nil {
		f.tracker = analytics.Noop{}
	}
	if f.clock == nil {
		f.clock = time.Now
	}
	if f.onDone == nil {
		f.onDone = func() {}
	}

	f.load()
	f.stepEntered = f.clock()
	return f
}

// load hydrates from the persisted record, if any, and computes the resume
// step for incomplete installs.
func (f *Flow) load() {
	if f.gateway == nil {
		return
	}

	rec, err := f.gateway.FetchProfile()
	if errors.Is(err, store.ErrNotFound) {
		logging.Flow("No persisted profile; starting fresh")
		return
	}
	if err != nil {
		logging.FlowError("Failed to load persisted profile: %v", err)
		f.errState = ErrorLoadFailed
		return
	}

	f.prof = rec.Profile
	if rec.StepSeconds != nil {
		f.stepSeconds = rec.StepSeconds
	}

	if f.prof.IsComplete() {
		f.current = StepDone
		f.flowState = FlowCompleted
		f.doneFired = true
		logging.Flow("Persisted profile already complete")
		return
	}

	f.current = determineResumeStep(f.prof)
	logging.Flow("Resuming onboarding at step %s", f.current)
}

// determineResumeStep scans the answer fields left to right and maps the
// first missing one to the step that collects it. A missing age resumes at
// the tailor screen that introduces the personal questions. Name, goals and
// topics are skippable but still gate the resume position; skipping them and
// quitting resumes at the skipped step again.
func determineResumeStep(p *profile.Profile) Step {
	switch {
	case p.Referral == nil:
		return StepReferral
	case p.Age == nil:
		return StepTailor
	case p.Gender == nil:
		return StepGender
	case p.DisplayName == "":
		return StepName
	case len(p.Goals) == 0:
		return StepGoals
	case len(p.Topics) == 0:
		return StepTopics
	default:
		return StepTopics
	}
}

// Subscribe registers an observer called with a snapshot after every
// transition. Observers run on the caller's goroutine.
func (f *Flow) Subscribe(fn func(Snapshot)) {
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// Snapshot returns the current public state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	steps := make(map[string]float64, len(f.stepSeconds))
	for k, v := range f.stepSeconds {
		steps[k] = v
	}
	_, hasPrev := f.current.Prev()
	return Snapshot{
		Step:        f.current,
		FlowState:   f.flowState,
		ErrorState:  f.errState,
		Profile:     f.prof.Clone(),
		Completion:  f.prof.CompletionFraction(),
		StepSeconds: steps,
		CanRetreat:  f.allowBack && hasPrev && len(f.history) > 0,
		CanSkip:     f.current.Attrs().Skippable,
	}
}

func (f *Flow) notify() {
	f.mu.Lock()
	snap := f.snapshotLocked()
	obs := make([]func(Snapshot), len(f.observers))
	copy(obs, f.observers)
	f.mu.Unlock()

	for _, fn := range obs {
		fn(snap)
	}
}

// Advance moves to the next step. At the terminal step it completes the flow
// instead: stamps the completion time, persists, and fires the completion
// callback exactly once.
func (f *Flow) Advance() {
	f.mu.Lock()

	f.recordElapsedLocked()
	left := f.current

	next, ok := f.current.Next()
	if !ok {
		f.completeLocked()
		f.mu.Unlock()
		f.notify()
		return
	}

	f.history = append(f.history, f.current)
	f.current = next
	f.stepEntered = f.clock()
	elapsed := f.stepSeconds[left.String()]
	f.mu.Unlock()

	logging.Flow("Advance: %s -> %s (%.2fs on %s)", left, next, elapsed, left)
	f.fb.Impact(feedback.StyleLight)
	f.tracker.TrackStep(left.String(), elapsed)
	f.persist()
	f.notify()
}

// Retreat moves back one step. A no-op when back navigation is disabled, the
// history is empty, or there is no previous step.
func (f *Flow) Retreat() {
	f.mu.Lock()

	prev, ok := f.current.Prev()
	if !f.allowBack || len(f.history) == 0 || !ok {
		f.mu.Unlock()
		return
	}

	f.recordElapsedLocked()
	f.history = f.history[:len(f.history)-1]
	from := f.current
	f.current = prev
	f.stepEntered = f.clock()
	f.mu.Unlock()

	logging.Flow("Retreat: %s -> %s", from, prev)
	f.fb.Impact(feedback.StyleLight)
	f.notify()
}

// Skip advances past the current step without recording an answer. Only
// permitted on skippable steps; otherwise state is unchanged.
func (f *Flow) Skip() {
	f.mu.Lock()
	skippable := f.current.Attrs().Skippable
	f.mu.Unlock()

	if !skippable {
		logging.FlowDebug("Skip ignored on non-skippable step %s", f.Snapshot().Step)
		return
	}
	f.Advance()
}

// completeLocked finishes the flow. Caller holds the lock.
func (f *Flow) completeLocked() {
	f.prof.MarkCompleted(f.clock())
	f.flowState = FlowCompleted

	fireDone := !f.doneFired
	f.doneFired = true
	prof := f.prof.Clone()

	logging.Flow("Onboarding complete (total %.2fs)", f.totalSecondsLocked())

	if fireDone {
		f.saves.Add(1)
		go func() {
			defer f.saves.Done()
			f.fb.Success()
			f.tracker.TrackCompletion(prof)
			f.onDone()
		}()
	}
	f.persistLocked()
}

// UpdateReferral records the referral answer and persists.
func (f *Flow) UpdateReferral(r catalog.ReferralSource) {
	f.mutate(func() { f.prof.SetReferral(r) })
}

// UpdateAge records the age answer and persists.
func (f *Flow) UpdateAge(a catalog.AgeRange) {
	f.mutate(func() { f.prof.SetAge(a) })
}

// UpdateGender records the gender answer and persists.
func (f *Flow) UpdateGender(g catalog.Gender) {
	f.mutate(func() { f.prof.SetGender(g) })
}

// UpdateName records the display name and persists.
func (f *Flow) UpdateName(name string) {
	f.mutate(func() { f.prof.SetName(name) })
}

// UpdateGoals replaces the goal set and persists.
func (f *Flow) UpdateGoals(goals []catalog.Goal) {
	f.mutate(func() { f.prof.SetGoals(goals) })
}

// UpdateTopics replaces the topic set and persists.
func (f *Flow) UpdateTopics(topics []catalog.Topic) {
	f.mutate(func() { f.prof.SetTopics(topics) })
}

func (f *Flow) mutate(apply func()) {
	f.mu.Lock()
	apply()
	f.mu.Unlock()

	f.fb.Selection()
	f.persist()
	f.notify()
}

// Reset clears the persisted record and all in-memory state, returning to
// the first step. An in-flight save may still land after the clear; the next
// save simply overwrites it (last write wins).
func (f *Flow) Reset() {
	f.mu.Lock()
	f.prof = profile.New()
	f.current = StepReferral
	f.flowState = FlowActive
	f.errState = ErrorNone
	f.history = nil
	f.stepSeconds = make(map[string]float64)
	f.stepEntered = f.clock()
	f.doneFired = false
	if f.gateway != nil {
		if err := f.gateway.ClearProfile(); err != nil {
			logging.FlowError("Reset: failed to clear persisted profile: %v", err)
			f.setErrorLocked(err)
		}
	}
	f.mu.Unlock()

	logging.Flow("Flow reset")
	f.notify()
}

// Pause marks the flow paused (host lost focus). Advance and field updates
// still work; pausing only flags the state for the presentation layer.
func (f *Flow) Pause() {
	f.mu.Lock()
	if f.flowState == FlowActive {
		f.flowState = FlowPaused
	}
	f.mu.Unlock()
	f.notify()
}

// Resume reverses Pause.
func (f *Flow) Resume() {
	f.mu.Lock()
	if f.flowState == FlowPaused {
		f.flowState = FlowActive
	}
	f.mu.Unlock()
	f.notify()
}

// ClearError dismisses the published error state.
func (f *Flow) ClearError() {
	f.mu.Lock()
	f.errState = ErrorNone
	if f.flowState == FlowError {
		f.flowState = FlowActive
	}
	f.mu.Unlock()
	f.notify()
}

// Wait blocks until all fire-and-forget saves have settled. Tests use it;
// the UI never does.
func (f *Flow) Wait() {
	f.saves.Wait()
}

// recordElapsedLocked adds the time spent on the current step to its bucket.
func (f *Flow) recordElapsedLocked() {
	elapsed := f.clock().Sub(f.stepEntered).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	f.stepSeconds[f.current.String()] += elapsed
}

func (f *Flow) totalSecondsLocked() float64 {
	var total float64
	for _, v := range f.stepSeconds {
		total += v
	}
	return total
}

// persist writes the current state in the background. The save is
// fire-and-forget: a failure surfaces as ErrorSaveFailed on the next
// snapshot, and the record is retried on the next mutating action.
func (f *Flow) persist() {
	f.mu.Lock()
	f.persistLocked()
	f.mu.Unlock()
}

func (f *Flow) persistLocked() {
	if f.gateway == nil {
		return
	}

	steps := make(map[string]float64, len(f.stepSeconds))
	for k, v := range f.stepSeconds {
		steps[k] = v
	}
	rec := &store.ProfileRecord{
		Profile:      f.prof.Clone(),
		StepSeconds:  steps,
		TotalSeconds: f.totalSecondsLocked(),
		Completion:   f.prof.CompletionFraction(),
	}

	// Saves are fire-and-forget but chained, so they land in submission
	// order and a completion stamp can never lose to an older write.
	prev := f.saveTail
	done := make(chan struct{})
	f.saveTail = done

	f.saves.Add(1)
	go func() {
		defer f.saves.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := f.gateway.SaveProfile(rec); err != nil {
			logging.FlowError("Persist failed: %v", err)
			f.mu.Lock()
			f.setErrorLocked(err)
			f.mu.Unlock()
			f.notify()
			return
		}
		f.tracker.TrackSave(rec.Profile)
	}()
}

// setErrorLocked maps a storage error into the published error state.
func (f *Flow) setErrorLocked(err error) {
	var verr *store.ValidationError
	var serr *store.SaveError
	var lerr *store.LoadError
	switch {
	case errors.As(err, &verr):
		f.errState = ErrorValidationFailed
	case errors.As(err, &serr):
		f.errState = ErrorSaveFailed
	case errors.As(err, &lerr):
		f.errState = ErrorLoadFailed
	default:
		f.errState = ErrorOperationFailed
	}
	// A completed flow stays completed; the error banner is enough.
	if f.flowState == FlowActive {
		f.flowState = FlowError
	}
}
