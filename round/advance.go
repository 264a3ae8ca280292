package round

import (
	"github.com/pthm-cable/capture/components"
	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/traits"
)

// AdvanceRound finishes the current round and starts the next one:
//  1. traits of entities still alive are marked survived and archived (once per trait)
//  2. the round counter increments and the timer resets
//  3. the parent pool is chosen (whole archive, or last survivors under last_round)
//  4. all remaining entities are destroyed
//  5. a new batch is spawned, bred from the pool or random when it is empty
//  6. the batch traits are kept as the previous-round record
func (e *Engine) AdvanceRound() {
	finished := e.round
	spawned := len(e.previous)
	captured := e.roundCaptured

	// First pass: collect survivors (world is locked during the query)
	var survivors []traits.Trait
	var remaining []Handle
	query := e.filter.Query()
	for query.Next() {
		_, _, capt := query.Get()
		capt.Trait.Survived = true
		survivors = append(survivors, capt.Trait)
		remaining = append(remaining, e.handle(query.Entity()))
	}

	promoted := make([]traits.Trait, 0, len(survivors))
	for _, t := range survivors {
		if e.promote(t) {
			promoted = append(promoted, t)
		}
	}
	e.lastSurvivors = survivors

	// Final survival flags for the finished batch
	batch := e.previous
	if len(survivors) > 0 {
		alive := make(map[traits.ID]struct{}, len(survivors))
		for _, t := range survivors {
			alive[t.ID] = struct{}{}
		}
		for i := range batch {
			_, ok := alive[batch[i].ID]
			batch[i].Survived = ok
		}
	}

	e.round++
	e.timeRemaining = e.cfg.Round.Duration
	e.roundCaptured = 0

	parents := e.parentPool()

	// Second pass: tear down everything left from the finished round
	for _, h := range remaining {
		e.destroy(h)
	}

	next, inherited := e.spawnBatch(parents)
	e.previous = next

	e.log.Debug("round_advanced",
		"round", e.round,
		"spawned", len(next),
		"survivors", len(promoted),
		"archive_size", len(e.archive),
		"inherited", inherited,
	)

	if e.opts.OnRoundEnd != nil && spawned > 0 {
		e.opts.OnRoundEnd(Summary{
			Round:         finished,
			Spawned:       spawned,
			Captured:      captured,
			Batch:         batch,
			Survivors:     promoted,
			Next:          append([]traits.Trait(nil), next...),
			Inherited:     inherited,
			ArchiveSize:   len(e.archive),
			TotalCaptured: e.totalCaptured,
			Elapsed:       e.elapsed,
		})
	}
}

// promote appends t to the archive unless a trait with the same identity is
// already there. It reports whether t was added.
func (e *Engine) promote(t traits.Trait) bool {
	if _, ok := e.archived[t.ID]; ok {
		return false
	}
	t.Survived = true
	e.archived[t.ID] = struct{}{}
	e.archive = append(e.archive, t)
	return true
}

// parentPool returns the traits eligible to breed the next batch.
func (e *Engine) parentPool() []traits.Trait {
	if e.cfg.Round.Selection == config.SelectionLastRound {
		return e.lastSurvivors
	}
	return e.archive
}

// spawnBatch creates the configured number of entities and returns their traits.
func (e *Engine) spawnBatch(parents []traits.Trait) ([]traits.Trait, int) {
	n := e.cfg.Round.SpawnCount
	batch := make([]traits.Trait, 0, n)
	inherited := 0

	for i := 0; i < n; i++ {
		var t traits.Trait
		if len(parents) > 0 {
			parent := parents[e.rng.Intn(len(parents))]
			t = traits.Mutate(parent, e.rng, e.cfg.Mutation)
			inherited++
		} else {
			t = traits.Random(e.rng, e.cfg.Spawn)
		}
		t.ID = e.nextTraitID
		e.nextTraitID++
		t.Generation = e.round

		pos := e.randomPosition()
		e.spawn(t, pos)
		batch = append(batch, t)
	}

	return batch, inherited
}

// spawn creates one entity and notifies the host.
func (e *Engine) spawn(t traits.Trait, pos components.Position) {
	body := components.BodyFromTrait(t)
	capt := components.Capturable{Trait: t, Round: e.round}

	entity := e.mapper.NewEntity(&pos, &body, &capt)
	h := e.handle(entity)
	e.active[h] = struct{}{}

	if e.opts.OnSpawn != nil {
		e.opts.OnSpawn(Entity{Handle: h, Trait: t, Position: pos, Body: body})
	}
}

// randomPosition draws a uniform point in the play area. A provided area that
// is not Valid is replaced by the configured one.
func (e *Engine) randomPosition() components.Position {
	area := e.cfg.PlayArea
	if e.opts.Bounds != nil {
		if provided := e.opts.Bounds(); provided.Valid() {
			area = provided
		} else {
			e.log.Warn("invalid spawn bounds, using play_area",
				"min_x", provided.MinX, "max_x", provided.MaxX,
				"min_y", provided.MinY, "max_y", provided.MaxY,
			)
		}
	}
	x := area.MinX + e.rng.Float64()*area.Width()
	y := area.MinY + e.rng.Float64()*area.Height()
	return components.Position{X: float32(x), Y: float32(y)}
}
