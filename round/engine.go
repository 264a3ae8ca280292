// Package round runs the timed capture rounds: it spawns batches of entities,
// tracks captures, promotes survivors into a permanent archive, and breeds the
// next batch from that archive by mutation.
//
// An Engine is not safe for concurrent use. Tick, AdvanceRound and ReportCapture
// must be called from one goroutine (the host's frame loop).
package round

import (
	"log/slog"
	"math/rand"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/capture/components"
	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/traits"
)

// Handle identifies a spawned entity. Hosts hold it to report captures; a handle
// whose entity is gone, or that belongs to another engine, is simply ignored.
type Handle struct {
	engine uint64
	entity ecs.Entity
}

// engineIDs hands out engine identities. Zero is never assigned, so the zero
// Handle matches no engine.
var engineIDs atomic.Uint64

// Entity is a read-only view of a live entity.
type Entity struct {
	Handle   Handle
	Trait    traits.Trait
	Position components.Position
	Body     components.Body
}

// Summary describes a finished round. It is delivered to Options.OnRoundEnd after
// the next batch has been spawned.
type Summary struct {
	Round         int            // number of the round that just finished
	Spawned       int            // entities spawned in that round
	Captured      int            // entities captured in that round
	Batch         []traits.Trait // traits spawned in that round, survival flags final
	Survivors     []traits.Trait // traits promoted this advance
	Next          []traits.Trait // traits of the batch just spawned
	Inherited     int            // how many of Next were bred from a parent
	ArchiveSize   int
	TotalCaptured int
	Elapsed       float64 // session seconds at the moment of the advance
}

// Options configures optional engine behaviour.
type Options struct {
	Seed int64

	// Bounds supplies the play area for each spawn. Nil uses the configured area,
	// and so does any call that returns an empty, inverted or non-finite area.
	Bounds func() config.PlayArea

	OnSpawn    func(Entity)
	OnDestroy  func(Handle)
	OnCapture  func(traits.Trait)
	OnRoundEnd func(Summary)

	Logger *slog.Logger
}

// Engine owns all round state.
type Engine struct {
	cfg  *config.Config
	opts Options
	log  *slog.Logger
	rng  *rand.Rand
	id   uint64 // stamped into every Handle this engine issues

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Body, components.Capturable]
	filter *ecs.Filter3[components.Position, components.Body, components.Capturable]

	// Live entities; membership is what makes a handle valid
	active map[Handle]struct{}

	round         int
	timeRemaining float64
	elapsed       float64
	totalCaptured int
	roundCaptured int

	previous      []traits.Trait // traits spawned for the current round
	lastSurvivors []traits.Trait // traits that survived the round just finished
	archive       []traits.Trait
	archived      map[traits.ID]struct{}

	nextTraitID traits.ID
}

// New creates an engine at round 0 with a full timer, an empty archive and no
// entities. Call AdvanceRound once to spawn the first batch.
// It fails if cfg does not validate.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()

	e := &Engine{
		cfg:           cfg,
		opts:          opts,
		log:           logger,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		id:            engineIDs.Add(1),
		world:         world,
		mapper:        ecs.NewMap3[components.Position, components.Body, components.Capturable](world),
		filter:        ecs.NewFilter3[components.Position, components.Body, components.Capturable](world),
		active:        make(map[Handle]struct{}, cfg.Round.SpawnCount),
		timeRemaining: cfg.Round.Duration,
		archived:      make(map[traits.ID]struct{}),
		nextTraitID:   1,
	}
	return e, nil
}

// Tick advances the round timer by dt seconds. When the timer reaches zero the
// round is advanced before Tick returns. Negative dt is treated as zero.
func (e *Engine) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.elapsed += dt

	e.timeRemaining -= dt
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.AdvanceRound()
	}
}

// ReportCapture removes a captured entity from play. Captures of entities that are
// no longer active (already captured, or torn down at round end) are ignored.
func (e *Engine) ReportCapture(h Handle) {
	if _, ok := e.active[h]; !ok {
		return
	}

	_, _, capt := e.mapper.Get(h.entity)
	capt.Trait.Survived = false
	captured := capt.Trait

	e.destroy(h)
	e.totalCaptured++
	e.roundCaptured++

	if e.opts.OnCapture != nil {
		e.opts.OnCapture(captured)
	}
}

// handle wraps an entity of this engine's world.
func (e *Engine) handle(entity ecs.Entity) Handle {
	return Handle{engine: e.id, entity: entity}
}

// destroy removes an entity from the world and the active set.
func (e *Engine) destroy(h Handle) {
	delete(e.active, h)
	e.world.RemoveEntity(h.entity)
	if e.opts.OnDestroy != nil {
		e.opts.OnDestroy(h)
	}
}

// TimeRemaining returns the seconds left in the current round.
func (e *Engine) TimeRemaining() float64 { return e.timeRemaining }

// Round returns the current round number. It is 0 until the first advance.
func (e *Engine) Round() int { return e.round }

// TotalCaptured returns the number of captures this session.
func (e *Engine) TotalCaptured() int { return e.totalCaptured }

// RoundCaptured returns the number of captures in the current round.
func (e *Engine) RoundCaptured() int { return e.roundCaptured }

// Elapsed returns the session time accumulated through Tick.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// ActiveCount returns the number of live entities.
func (e *Engine) ActiveCount() int { return len(e.active) }

// ArchiveSize returns the number of traits that have ever survived a round.
func (e *Engine) ArchiveSize() int { return len(e.archive) }

// CaptureRate returns captures per second over the whole session.
func (e *Engine) CaptureRate() float64 {
	if e.elapsed <= 0 {
		return 0
	}
	return float64(e.totalCaptured) / e.elapsed
}

// CaptureMeter returns the capture rate scaled into [0,1] for display.
func (e *Engine) CaptureMeter() float64 {
	m := e.CaptureRate() / e.cfg.Telemetry.CaptureRateScale
	if m > 1 {
		return 1
	}
	return m
}

// Archive returns a copy of the survivor archive in promotion order.
func (e *Engine) Archive() []traits.Trait {
	return append([]traits.Trait(nil), e.archive...)
}

// PreviousRoundTraits returns a copy of the traits spawned for the current round.
func (e *Engine) PreviousRoundTraits() []traits.Trait {
	return append([]traits.Trait(nil), e.previous...)
}

// Lookup returns the live entity for h.
func (e *Engine) Lookup(h Handle) (Entity, bool) {
	if _, ok := e.active[h]; !ok {
		return Entity{}, false
	}
	pos, body, capt := e.mapper.Get(h.entity)
	return Entity{Handle: h, Trait: capt.Trait, Position: *pos, Body: *body}, true
}

// Entities returns a snapshot of all live entities in a stable order.
func (e *Engine) Entities() []Entity {
	out := make([]Entity, 0, len(e.active))
	query := e.filter.Query()
	for query.Next() {
		pos, body, capt := query.Get()
		out = append(out, Entity{
			Handle:   e.handle(query.Entity()),
			Trait:    capt.Trait,
			Position: *pos,
			Body:     *body,
		})
	}
	return out
}

// EntityAt returns the topmost live entity whose body contains (x, y) in world
// coordinates. Overlaps resolve to the entity latest in Entities order, which is
// the one a host drawing in that order shows on top.
func (e *Engine) EntityAt(x, y float32) (Entity, bool) {
	var hit Entity
	found := false

	query := e.filter.Query()
	for query.Next() {
		pos, body, capt := query.Get()
		dx := pos.X - x
		dy := pos.Y - y
		if dx*dx+dy*dy > body.Radius*body.Radius {
			continue
		}
		hit = Entity{Handle: e.handle(query.Entity()), Trait: capt.Trait, Position: *pos, Body: *body}
		found = true
	}
	return hit, found
}
