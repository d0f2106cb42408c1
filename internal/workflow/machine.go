package workflow

// machine.go defines the workflow phases and the pure transition function.
//
// A run moves through the phases in a fixed order:
//
//	Idle -> Validating -> Uploading -> ProfileFetch -> QualityFetch -> Cleaning -> Ready
//
// A rejected file returns Validating to Idle. Any in-flight phase moves to
// Error on Failed. Ready and Error end a run; a new file selection restarts
// the machine from Validating.

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for an event the current phase does not accept.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// Phase is a workflow state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseUploading
	PhaseProfileFetch
	PhaseQualityFetch
	PhaseCleaning
	PhaseReady
	PhaseError
)

var phaseNames = [...]string{
	PhaseIdle:         "idle",
	PhaseValidating:   "validating",
	PhaseUploading:    "uploading",
	PhaseProfileFetch: "profile_fetch",
	PhaseQualityFetch: "quality_fetch",
	PhaseCleaning:     "cleaning",
	PhaseReady:        "ready",
	PhaseError:        "error",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText renders the phase name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// InFlight reports whether a run is between file selection and its end.
func (p Phase) InFlight() bool {
	return p >= PhaseValidating && p <= PhaseCleaning
}

// Event drives a transition.
type Event int

const (
	EventFileSelected Event = iota
	EventFileRejected
	EventFileAccepted
	EventUploaded
	EventProfileLoaded
	EventQualityLoaded
	EventCleaned
	EventFailed
)

var eventNames = [...]string{
	EventFileSelected:  "file_selected",
	EventFileRejected:  "file_rejected",
	EventFileAccepted:  "file_accepted",
	EventUploaded:      "uploaded",
	EventProfileLoaded: "profile_loaded",
	EventQualityLoaded: "quality_loaded",
	EventCleaned:       "cleaned",
	EventFailed:        "failed",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

// Effect is the work the orchestrator performs after entering a phase.
type Effect int

const (
	EffectNone Effect = iota
	EffectValidate
	EffectNotifyRejection
	EffectUpload
	EffectFetchProfile
	EffectFetchQuality
	EffectClean
	EffectComplete
	EffectNotifyFailure
)

var effectNames = [...]string{
	EffectNone:            "none",
	EffectValidate:        "validate",
	EffectNotifyRejection: "notify_rejection",
	EffectUpload:          "upload",
	EffectFetchProfile:    "fetch_profile",
	EffectFetchQuality:    "fetch_quality",
	EffectClean:           "clean",
	EffectComplete:        "complete",
	EffectNotifyFailure:   "notify_failure",
}

func (e Effect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectNames[e]
}

type step struct {
	next   Phase
	effect Effect
}

type edge struct {
	from  Phase
	event Event
}

var transitions = map[edge]step{
	{PhaseIdle, EventFileSelected}:          {PhaseValidating, EffectValidate},
	{PhaseReady, EventFileSelected}:         {PhaseValidating, EffectValidate},
	{PhaseError, EventFileSelected}:         {PhaseValidating, EffectValidate},
	{PhaseValidating, EventFileRejected}:    {PhaseIdle, EffectNotifyRejection},
	{PhaseValidating, EventFileAccepted}:    {PhaseUploading, EffectUpload},
	{PhaseUploading, EventUploaded}:         {PhaseProfileFetch, EffectFetchProfile},
	{PhaseProfileFetch, EventProfileLoaded}: {PhaseQualityFetch, EffectFetchQuality},
	{PhaseQualityFetch, EventQualityLoaded}: {PhaseCleaning, EffectClean},
	{PhaseCleaning, EventCleaned}:           {PhaseReady, EffectComplete},
}

// Transition returns the phase and effect that follow event in phase.
// It has no side effects.
func Transition(phase Phase, event Event) (Phase, Effect, error) {
	if event == EventFailed && phase.InFlight() {
		return PhaseError, EffectNotifyFailure, nil
	}
	if s, ok := transitions[edge{phase, event}]; ok {
		return s.next, s.effect, nil
	}
	return phase, EffectNone, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, phase)
}
