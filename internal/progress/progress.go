package progress

import (
	"github.com/schollz/progressbar/v3"
)

// Options configures progress bar behavior
type Options struct {
	Quiet   bool
	Verbose bool
}

// Manager renders a progress bar for the fingerprinting phase. It
// satisfies dedup.ProgressReporter; in quiet mode it renders nothing.
type Manager struct {
	options Options
	bar     *progressbar.ProgressBar
}

// NewManager creates a new progress manager
func NewManager(options Options) *Manager {
	return &Manager{options: options}
}

// Start initializes the bar for the given number of files.
func (pm *Manager) Start(totalFiles int) {
	if pm.options.Quiet || totalFiles == 0 {
		return
	}
	pm.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Fingerprinting files"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}

// Increment advances the bar by one file.
func (pm *Manager) Increment() {
	if pm.bar != nil {
		// #nosec G104 - progress rendering is not critical for functionality
		_ = pm.bar.Add(1)
	}
}

// Finish completes and clears the bar.
func (pm *Manager) Finish() {
	if pm.bar != nil {
		_ = pm.bar.Finish()
		pm.bar = nil
	}
}
