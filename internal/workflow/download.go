package workflow

import (
	"context"

	"github.com/JonMunkholm/cleanmind/internal/core"
	"github.com/JonMunkholm/cleanmind/internal/notify"
)

// Opener hands a download target to the environment: a browser response,
// a file on disk.
type Opener interface {
	Open(ctx context.Context, datasetID, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, datasetID, url string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, datasetID, url string) error {
	return f(ctx, datasetID, url)
}

// RequestDownload opens the active cleaned dataset with opener. Without a
// cleaned dataset it notifies and returns a *core.StateError, and opener is
// not called. Neither the phase nor the session changes.
func (o *Orchestrator) RequestDownload(ctx context.Context, opener Opener) error {
	cleanedID := o.state.CleanedID()
	if cleanedID == "" {
		err := &core.StateError{Message: MsgNoCleaned}
		o.notifier.Notify(err.Message, notify.Error)
		return err
	}

	if err := opener.Open(ctx, cleanedID, o.backend.DownloadURL(cleanedID)); err != nil {
		o.notifier.Notify(notificationText(err), notify.Error)
		return err
	}
	return nil
}
