package recorder

import "github.com/okian/muster/pkg/logger"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNotify sets the refresh signal fired after a successful recording.
// The UI re-fetches session stats and the recent-activity feed on it.
func WithNotify(notify func()) Option {
	return func(r *Recorder) {
		if notify != nil {
			r.notify = notify
		}
	}
}

// WithLogger sets a custom logger for the recorder.
func WithLogger(log logger.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}
