// Package workflow sequences a dataset cleaning run against the backend.
//
// An Orchestrator validates a selected file, then drives four dependent
// backend calls in order: upload, profile, quality score and clean. Each
// result updates the session identifiers and is forwarded to a Renderer;
// progress and failures go to a notify.Notifier. The phase machine in
// machine.go decides what happens next; the orchestrator only performs the
// effect it is given.
package workflow

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/JonMunkholm/cleanmind/internal/logging"
	"github.com/JonMunkholm/cleanmind/internal/notify"
	"github.com/JonMunkholm/cleanmind/internal/session"
	"github.com/google/uuid"
)

// Notification texts shown during a run.
const (
	MsgUploading   = "Uploading and registering dataset..."
	MsgCleaning    = "Running cleaning pipeline..."
	MsgCleanedDone = "Cleaning complete. You can download the cleaned CSV now."
	MsgNoCleaned   = "No cleaned dataset available to download."
)

// Backend is the set of dataset endpoints a run depends on.
// *transport.Datasets implements it.
type Backend interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
	Profile(ctx context.Context, datasetID string) (*core.DatasetProfile, error)
	Quality(ctx context.Context, datasetID string) (*core.QualityReport, error)
	Clean(ctx context.Context, datasetID string, opts *core.CleaningOptions) (*core.CleaningResult, error)
	DownloadURL(datasetID string) string
}

// Renderer receives results as a run produces them. *view.Board implements it.
type Renderer interface {
	Reset()
	RenderProfile(datasetID string, p *core.DatasetProfile)
	RenderQuality(q *core.QualityReport)
	RenderCleaning(c *core.CleaningResult)
	SetDownloadEnabled(enabled bool)
}

// Config wires an Orchestrator. Backend is required; nil State, Notifier
// and Renderer get working defaults.
type Config struct {
	Backend  Backend
	State    *session.State
	Notifier notify.Notifier
	Renderer Renderer

	// Options is sent with the clean call. Nil leaves the backend defaults.
	Options *core.CleaningOptions
}

// Orchestrator runs the workflow for one session.
type Orchestrator struct {
	backend  Backend
	state    *session.State
	notifier notify.Notifier
	renderer Renderer
	options  *core.CleaningOptions
	gate     *Gate

	mu    sync.RWMutex
	phase Phase
}

// New creates an Orchestrator in PhaseIdle.
func New(cfg Config) *Orchestrator {
	if cfg.State == nil {
		cfg.State = session.New()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discardNotifier{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = discardRenderer{}
	}
	return &Orchestrator{
		backend:  cfg.Backend,
		state:    cfg.State,
		notifier: cfg.Notifier,
		renderer: cfg.Renderer,
		options:  cfg.Options,
		gate:     NewGate(),
		phase:    PhaseIdle,
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// State returns the session identifiers the orchestrator owns.
func (o *Orchestrator) State() *session.State {
	return o.state
}

// Running reports whether a run is in flight.
func (o *Orchestrator) Running() bool {
	return o.gate.Active()
}

// Wait blocks until the in-flight run, if any, has finished.
func (o *Orchestrator) Wait(ctx context.Context) error {
	return o.gate.Wait(ctx)
}

// run carries what one pass through the machine has produced so far.
type run struct {
	filename  string
	file      io.Reader
	log       *slog.Logger
	datasetID string
	result    *core.CleaningResult
	err       error
}

// Run processes a selected file to Ready, Error or, for a rejected file,
// back to Idle. The returned error is the one that was notified.
// A selection made while another run is in flight returns ErrRunInProgress
// and leaves the phase and session untouched.
func (o *Orchestrator) Run(ctx context.Context, filename string, file io.Reader) error {
	if !o.gate.TryAcquire() {
		o.notifier.Notify(notificationText(core.ErrRunInProgress), notify.Error)
		return core.ErrRunInProgress
	}
	defer o.gate.Release()

	r := &run{
		filename: filename,
		file:     file,
		log:      logging.WithFields(ctx, "run_id", uuid.NewString(), "filename", filename),
	}
	start := time.Now()

	event := EventFileSelected
	for {
		effect, err := o.advance(event)
		if err != nil {
			r.log.Error("workflow transition refused", "error", err)
			return err
		}

		next, done := o.execute(ctx, r, effect)
		if done {
			r.log.Info("run finished",
				"phase", o.Phase(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return r.err
		}
		event = next
	}
}

func (o *Orchestrator) advance(event Event) (Effect, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next, effect, err := Transition(o.phase, event)
	if err != nil {
		return EffectNone, err
	}
	o.phase = next
	return effect, nil
}

// execute performs effect and returns the event it produced, or done when
// the run has ended.
func (o *Orchestrator) execute(ctx context.Context, r *run, effect Effect) (Event, bool) {
	switch effect {
	case EffectValidate:
		if err := core.ValidateFilename(r.filename); err != nil {
			r.err = err
			return EventFileRejected, false
		}
		return EventFileAccepted, false

	case EffectNotifyRejection:
		r.log.Info("file rejected")
		o.notifier.Notify(notificationText(r.err), notify.Error)
		return 0, true

	case EffectUpload:
		o.state.BeginUpload()
		o.renderer.Reset()
		o.notifier.Notify(MsgUploading, notify.Info)

		id, err := timed(r, "upload", func() (string, error) {
			return o.backend.Upload(ctx, r.filename, r.file)
		})
		if err != nil {
			return r.fail(err)
		}
		o.state.AdoptDataset(id)
		r.datasetID = id
		r.log = r.log.With("dataset_id", id)
		return EventUploaded, false

	case EffectFetchProfile:
		profile, err := timed(r, "profile", func() (*core.DatasetProfile, error) {
			return o.backend.Profile(ctx, r.datasetID)
		})
		if err != nil {
			return r.fail(err)
		}
		o.renderer.RenderProfile(r.datasetID, profile)
		return EventProfileLoaded, false

	case EffectFetchQuality:
		report, err := timed(r, "quality", func() (*core.QualityReport, error) {
			return o.backend.Quality(ctx, r.datasetID)
		})
		if err != nil {
			return r.fail(err)
		}
		o.renderer.RenderQuality(report)
		return EventQualityLoaded, false

	case EffectClean:
		o.notifier.Notify(MsgCleaning, notify.Info)
		result, err := timed(r, "clean", func() (*core.CleaningResult, error) {
			return o.backend.Clean(ctx, r.datasetID, o.options)
		})
		if err != nil {
			return r.fail(err)
		}
		if err := o.state.AdoptCleaned(result.SourceDatasetID, result.CleanedDatasetID); err != nil {
			// The backend answered, but with a result for another dataset.
			return r.fail(&core.RequestError{Status: http.StatusOK, Message: err.Error(), Err: err})
		}
		r.result = result
		return EventCleaned, false

	case EffectComplete:
		o.renderer.RenderCleaning(r.result)
		o.notifier.Notify(MsgCleanedDone, notify.Info)
		o.renderer.SetDownloadEnabled(true)
		r.log.Info("dataset cleaned", "cleaned_dataset_id", r.result.CleanedDatasetID)
		return 0, true

	case EffectNotifyFailure:
		r.log.Warn("run failed", "error", r.err)
		o.notifier.Notify(notificationText(r.err), notify.Error)
		return 0, true
	}

	return 0, true
}

func (r *run) fail(err error) (Event, bool) {
	r.err = err
	return EventFailed, false
}

func timed[T any](r *run, step string, call func() (T, error)) (T, error) {
	start := time.Now()
	v, err := call()
	r.log.Debug("backend call",
		"step", step,
		"duration_ms", time.Since(start).Milliseconds(),
		"ok", err == nil,
	)
	return v, err
}

// notificationText is the user-facing text for err. Typed errors carry
// their own message; anything unrecognized shows its error string.
func notificationText(err error) string {
	msg := core.MapError(err)
	if msg.Code == "ERR000" {
		return err.Error()
	}
	return msg.Message
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, notify.Severity) {}

type discardRenderer struct{}

func (discardRenderer) Reset() {}
func (discardRenderer) RenderProfile(string, *core.DatasetProfile) {}
func (discardRenderer) RenderQuality(*core.QualityReport) {}
func (discardRenderer) RenderCleaning(*core.CleaningResult) {}
func (discardRenderer) SetDownloadEnabled(bool) {}
