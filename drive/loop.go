package drive

import (
	"context"
	"log/slog"
	"time"
)

// LoopConfig represents the drive subcommand configuration.
type LoopConfig struct {
	TickInterval  time.Duration `help:"Control cycle period" default:"20ms" env:"DRIVECTL_TICK_INTERVAL"`
	Debounce      time.Duration `help:"Minimum interval between applied UI setting events" default:"250ms" env:"DRIVECTL_DEBOUNCE"`
	TestMode      bool          `help:"Compute motor commands but withhold them from the controllers" env:"DRIVECTL_TEST_MODE"`
	SnapshotEvery int           `help:"Publish a telemetry snapshot every N cycles; 0 disables" default:"5" env:"DRIVECTL_SNAPSHOT_EVERY"`
}

// Adjustment is a debounced button-press event from the UI collaborator: a
// named percentage setting and the delta to apply.
type Adjustment struct {
	Setting string `json:"setting"`
	Delta   int    `json:"delta"`
}

// Snapshot is the per-cycle state published to telemetry consumers.
type Snapshot struct {
	Cycle      uint64 `json:"cycle"`
	Intent     string `json:"intent"`
	LeftSpeed  int    `json:"leftSpeed"`
	RightSpeed int    `json:"rightSpeed"`
	LeftPulse  Pulse  `json:"leftPulse"`
	RightPulse Pulse  `json:"rightPulse"`
	Resyncing  bool   `json:"resyncing"`
}

// PulseTrace receives every computed pulse pair for wire-level debugging.
type PulseTrace interface {
	Trace(left, right Pulse)
}

// Loop is the fixed-cadence control loop. It owns the drive State for its
// lifetime and is single-threaded: Step performs one full
// sample→classify→target→interlock→ramp→pulse cycle, and Run drives Step
// from a ticker. Tests call Step directly for deterministic stepping.
type Loop struct {
	cfg    LoopConfig
	logger *slog.Logger

	src Source
	out Output

	settings Settings
	tuning   Tuning

	state     *State
	interlock *Interlock
	mapper    PulseMapper

	events    chan Adjustment
	lastEvent time.Time

	trace      PulseTrace
	onSnapshot func(Snapshot)
	onSettings func(Settings)

	cycle uint64
}

// LoopOption customizes a Loop beyond the mandatory collaborators.
type LoopOption func(*Loop)

// WithPulseTrace attaches a trace sink for every computed pulse pair.
func WithPulseTrace(t PulseTrace) LoopOption {
	return func(l *Loop) { l.trace = t }
}

// WithSnapshotFunc attaches a telemetry publisher. It is called from the
// loop goroutine and must not block.
func WithSnapshotFunc(f func(Snapshot)) LoopOption {
	return func(l *Loop) { l.onSnapshot = f }
}

// WithSettingsFunc attaches a callback invoked after a UI event changed the
// settings, typically to persist them.
func WithSettingsFunc(f func(Settings)) LoopOption {
	return func(l *Loop) { l.onSettings = f }
}

// NewLoop builds a control loop around a joystick source and a motor output.
// The State starts with both motors at neutral.
func NewLoop(cfg LoopConfig, logger *slog.Logger, src Source, out Output, settings Settings, opts ...LoopOption) *Loop {
	settings = settings.Clamped()
	tuning := settings.Tuning()
	state := &State{}

	l := &Loop{
		cfg:       cfg,
		logger:    logger,
		src:       src,
		out:       out,
		settings:  settings,
		tuning:    tuning,
		state:     state,
		interlock: NewInterlock(state, tuning),
		mapper:    PulseMapper{InvertLeft: tuning.InvertLeft, InvertRight: tuning.InvertRight},
		events:    make(chan Adjustment, 16),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Events is the channel UI collaborators feed setting adjustments into.
// Events are processed synchronously between cycles, debounced, and ignored
// entirely while a resync is in progress.
func (l *Loop) Events() chan<- Adjustment {
	return l.events
}

// State exposes the loop's drive state for inspection.
func (l *Loop) State() *State {
	return l.state
}

// Settings returns the current (possibly live-adjusted) settings.
func (l *Loop) Settings() Settings {
	return l.settings
}

// Run steps the loop at the configured cadence until the context is
// cancelled, then commands neutral immediately. Shutdown deliberately skips
// the decel ramp: the process is exiting and cannot guarantee the further
// cycles a ramp needs, so the one write that is certain to happen is the
// fail-safe stop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("control loop starting",
		"tick", l.cfg.TickInterval,
		"limit", l.tuning.Limit,
		"accel", l.tuning.Accel,
		"decel", l.tuning.Decel,
		"testMode", l.cfg.TestMode,
	)

	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("control loop stopping", "cycles", l.cycle)
			if !l.cfg.TestMode {
				if err := l.out.WritePulse(NeutralPulse, NeutralPulse); err != nil {
					l.logger.Error("failed to command neutral on shutdown", "error", err)
				}
			}
			return ctx.Err()
		case <-ticker.C:
			if err := l.Step(); err != nil {
				return err
			}
		}
	}
}

// Step executes one control cycle.
func (l *Loop) Step() error {
	l.cycle++

	// A resync owns the cycle: no new samples, no UI events, both motors
	// decelerating toward neutral.
	if l.state.Resyncing {
		left, right := l.interlock.Step(Target{})
		return l.emit(left, right, IntentNeutral)
	}

	l.applyPendingEvents()

	sample, err := l.src.Sample()
	if err != nil {
		// Transient misreads self-correct next cycle; command no-input in
		// the meantime so the vehicle ramps to a stop.
		l.logger.Debug("joystick misread", "error", err)
		sample = Centered()
	}

	levels, intent := Classify(sample, l.tuning.Thresholds)
	target := ComputeTarget(levels, l.tuning)
	left, right := l.interlock.Step(target)
	return l.emit(left, right, intent)
}

func (l *Loop) emit(left, right int, intent Intent) error {
	lp, rp := l.mapper.Map(left, right)

	if l.trace != nil {
		l.trace.Trace(lp, rp)
	}
	if !l.cfg.TestMode {
		if err := l.out.WritePulse(lp, rp); err != nil {
			return err
		}
	}

	if l.onSnapshot != nil && l.cfg.SnapshotEvery > 0 && l.cycle%uint64(l.cfg.SnapshotEvery) == 0 {
		l.onSnapshot(Snapshot{
			Cycle:      l.cycle,
			Intent:     intent.String(),
			LeftSpeed:  left,
			RightSpeed: right,
			LeftPulse:  lp,
			RightPulse: rp,
			Resyncing:  l.state.Resyncing,
		})
	}
	return nil
}

// applyPendingEvents drains queued UI adjustments. At most one event is
// applied per debounce window; the rest are dropped.
func (l *Loop) applyPendingEvents() {
	for {
		select {
		case ev := <-l.events:
			now := time.Now()
			if now.Sub(l.lastEvent) < l.cfg.Debounce {
				continue
			}
			if err := l.settings.Adjust(ev.Setting, ev.Delta); err != nil {
				l.logger.Warn("rejected UI event", "setting", ev.Setting, "error", err)
				continue
			}
			l.lastEvent = now
			l.retune()
			if l.onSettings != nil {
				l.onSettings(l.settings)
			}
			l.logger.Info("setting adjusted", "setting", ev.Setting, "delta", ev.Delta)
		default:
			return
		}
	}
}

func (l *Loop) retune() {
	l.tuning = l.settings.Tuning()
	l.interlock.Retune(l.tuning)
	l.mapper = PulseMapper{InvertLeft: l.tuning.InvertLeft, InvertRight: l.tuning.InvertRight}
}
