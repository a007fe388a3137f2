package engine

import (
	"fmt"

	"github.com/julianstephens/seq4d/internal/frames"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/worker"
)

// BakedActivation is a per-object pair of window fractions: where in the
// animation the object's product enters and leaves its active phase.
type BakedActivation struct {
	Start  float64 `json:"start"`
	Finish float64 `json:"finish"`
}

// BakeActivationJob builds a background job baking activation fractions for
// every mapped scene object. The product-to-object mapping is captured here,
// on the interactive thread; the returned job touches no engine cache, so it
// is safe to run while the caller keeps using the engine between passes.
func (e *Engine) BakeActivationJob(schedule *models.Schedule, window models.AnimationWindow) (worker.Job, error) {
	if e.host == nil {
		return nil, fmt.Errorf("no scene host attached")
	}
	window, err := e.NormalizeWindow(schedule, window)
	if err != nil {
		return nil, err
	}
	if !e.objects.Built() {
		e.objects.Build(e.host)
	}

	objectNames := make(map[string][]string)
	for _, obj := range e.objects.Renderables() {
		if pid := obj.ProductID(); pid != "" {
			objectNames[pid] = append(objectNames[pid], obj.Name())
		}
	}

	ref := frames.NewReference(e.cfg.DateSource)
	return func(update func(float64, string)) (any, error) {
		update(0, "computing product frames")
		table, err := ref.Compute(schedule, window)
		if err != nil {
			return nil, fmt.Errorf("bake failed: %w", err)
		}

		baked := make(map[string]BakedActivation)
		done, total := 0, len(table)
		for productID, records := range table {
			done++
			if total > 0 {
				update(float64(done)/float64(total)*100, "baking activation values")
			}
			names := objectNames[productID]
			if len(names) == 0 {
				continue
			}

			// Merge all contributing tasks into the widest active span.
			first, last := -1, -1
			for _, rec := range records {
				if rec.Active.Empty() {
					continue
				}
				if first == -1 || rec.Active.First < first {
					first = rec.Active.First
				}
				if rec.Active.Last > last {
					last = rec.Active.Last
				}
			}
			if first == -1 {
				continue
			}

			activation := BakedActivation{
				Start:  float64(first-window.StartFrame) / float64(window.TotalFrames),
				Finish: float64(last-window.StartFrame) / float64(window.TotalFrames),
			}
			for _, name := range names {
				baked[name] = activation
			}
		}
		update(100, "bake complete")
		return baked, nil
	}, nil
}
