// Package bridge wires the registry, router, shutdown coordinator, load
// sampler, events, and stats together into the single top-level object the
// entry point constructs, starts, and stops. Playing the same role the
// teacher's Orchestrator does for rooms/media
// (internal/app/orch/orchestrator.go) — a composition root, not a new
// algorithm.
package bridge

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/conference"
	"github.com/dkeye/voicebridge/internal/debugsnapshot"
	"github.com/dkeye/voicebridge/internal/events"
	"github.com/dkeye/voicebridge/internal/idgen"
	"github.com/dkeye/voicebridge/internal/loadsampler"
	"github.com/dkeye/voicebridge/internal/registry"
	"github.com/dkeye/voicebridge/internal/rng"
	"github.com/dkeye/voicebridge/internal/router"
	"github.com/dkeye/voicebridge/internal/shutdown"
	"github.com/dkeye/voicebridge/internal/signalling"
	"github.com/dkeye/voicebridge/internal/stats"
)

// PoolAdapter is the small capability the packet-buffer pool installed at
// startup must provide. The bridge depends only on this interface; actual
// pooling is a media-plane concern out of this core's scope.
type PoolAdapter interface {
	Acquire() []byte
	Release([]byte)
}

// Config bundles the tunables the bridge's components need. Distinct from
// internal/config.Config so this package has no dependency on viper.
type Config struct {
	LoadSampleInterval    time.Duration
	LoadedThreshold       float64
	RecoveryThreshold     float64
	MinAnnouncementWindow time.Duration
	ForceExitDelay        time.Duration
	InitialDrainMode      bool
}

// Bridge is the composition root: every component the spec names, wired
// together.
type Bridge struct {
	cfg Config

	clock clock.Clock
	rng   rng.Rng

	Registry    *registry.Registry
	Router      *router.Router
	Shutdown    *shutdown.Coordinator
	Events      *events.Emitter
	Stats       *stats.Stats
	Aggregator  *loadsampler.Aggregator
	LoadManager *loadsampler.Manager
	Sampler     *loadsampler.Sampler
	Debug       *debugsnapshot.Builder

	pool PoolAdapter

	mu        sync.Mutex
	drainMode bool

	sampleCtx    context.Context
	sampleCancel context.CancelFunc
}

type processExiter struct{}

func (processExiter) Exit() {
	log.Warn().Msg("force-exit delay elapsed, exiting process")
	os.Exit(0)
}

// New constructs a Bridge with its own real Clock and Rng. Tests that need
// determinism should use NewWithCapabilities instead.
func New(cfg Config) *Bridge {
	return NewWithCapabilities(cfg, clock.Real(), rng.Real())
}

// NewWithCapabilities constructs a Bridge with injected Clock and Rng
// capabilities, per the design note that id generation and any timer-driven
// behavior must be testable without wall-clock waits. Force shutdown is
// wired to actually terminate the process (processExiter); tests that drive
// RequestShutdown(false) should use newWithExiter with a fake Exiter
// instead.
func NewWithCapabilities(cfg Config, c clock.Clock, r rng.Rng) *Bridge {
	return newWithExiter(cfg, c, r, processExiter{})
}

func newWithExiter(cfg Config, c clock.Clock, r rng.Rng, exiter shutdown.Exiter) *Bridge {
	b := &Bridge{
		cfg:       cfg,
		clock:     c,
		rng:       r,
		Events:    events.New(),
		Stats:     stats.New(),
		drainMode: cfg.InitialDrainMode,
	}

	gen := idgen.New(c, r)
	b.Registry = registry.New(gen, b.Events)
	b.Shutdown = shutdown.New(c, b.Registry, b, exiter, cfg.MinAnnouncementWindow, cfg.ForceExitDelay)
	b.Registry.SetExpireNotifier(b.Shutdown)
	b.Router = router.New(b.Registry, b.Shutdown)

	b.Aggregator = loadsampler.NewAggregator(c)
	b.LoadManager = loadsampler.NewManager(cfg.LoadedThreshold, cfg.RecoveryThreshold, b.reduceLastN, b.Registry.List, b.Stats)
	b.Sampler = loadsampler.NewSampler(c, cfg.LoadSampleInterval, b.Aggregator, b.LoadManager)

	b.Debug = debugsnapshot.New(b.Registry, b.Shutdown, b.LoadManager, b.Stats, c)

	return b
}

// reduceLastN is the load manager's overload reducer. Lowering the
// effective global last-N is a media-plane admission decision out of this
// core's scope; the core's contract is only to invoke this callback with
// the live conference snapshot.
func (b *Bridge) reduceLastN(live []*conference.Conference) {
	log.Warn().Int("live_conferences", len(live)).Msg("reducing effective last-N under overload")
}

// BeginShutdown implements shutdown.Beginner. Invoked at most once, after
// the shutdown coordinator determines the bridge is quiescent past its
// minimum announcement window.
func (b *Bridge) BeginShutdown() {
	log.Info().Msg("bridge beginning shutdown")
	b.Stop()
}

// Install registers the process-wide buffer pool adapter. Must be called
// before Start, mirroring the spec's static-initializer-turned-explicit-call
// design note.
func (b *Bridge) Install(pool PoolAdapter) {
	b.pool = pool
}

// Start installs nothing new (Install must already have run) and starts
// the load sampler's ticking goroutine.
func (b *Bridge) Start(ctx context.Context) {
	b.sampleCtx, b.sampleCancel = context.WithCancel(ctx)
	go b.Sampler.Run(b.sampleCtx)
	log.Info().Msg("bridge started")
}

// Stop cancels the load sampler and expires every live conference.
func (b *Bridge) Stop() {
	if b.sampleCancel != nil {
		b.sampleCancel()
	}
	for _, c := range b.Registry.List() {
		b.Registry.Expire(c)
	}
	log.Info().Msg("bridge stopped")
}

// RequestShutdown triggers either the graceful or force shutdown path.
func (b *Bridge) RequestShutdown(graceful bool) {
	if graceful {
		b.Shutdown.RequestGraceful()
		return
	}
	b.Shutdown.RequestForce()
}

// SetDrainMode toggles the advisory drain flag. Has no direct effect on
// admission in the core; it is surfaced through stats/debug only.
func (b *Bridge) SetDrainMode(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drainMode = v
}

// DrainMode reports the current advisory drain flag.
func (b *Bridge) DrainMode() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drainMode
}

// Dispatch routes req asynchronously, matching the router's async contract.
func (b *Bridge) Dispatch(req signalling.Request) {
	b.Router.Dispatch(req)
}

// DispatchSync routes req inline and returns its reply, for tests.
func (b *Bridge) DispatchSync(req signalling.Request) signalling.Reply {
	return b.Router.DispatchSync(req)
}

// HealthCheck reports success unless the dispatcher itself panics, in which
// case it recovers and reports the panic's message, mirroring
// Videobridge.handleHealthCheckIQ's try/catch -> internal_server_error.
// Deeper probing of individual conferences is out of scope.
func (b *Bridge) HealthCheck() (reply signalling.HealthCheckReply) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("health check dispatcher panic")
			reply = signalling.HealthCheckReply{OK: false, Error: fmt.Sprintf("%v", r)}
		}
	}()
	_ = b.Registry.Count()
	return signalling.HealthCheckReply{OK: true}
}
