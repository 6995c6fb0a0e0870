package bar

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mj1618/wsbar/internal/model"
)

// Run applies events as they arrive and reconciles once per tick, so bursts
// of events between ticks cost one reconcile. changed, if set, is called
// after every reconcile that did work. Run returns once events is closed,
// with the error from errs if there was one, or with the context error.
func (b *Bar) Run(ctx context.Context, events <-chan model.Event, errs <-chan error, tick time.Duration, changed func()) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	reconcile := func() {
		if b.Reconcile() && changed != nil {
			changed()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				reconcile()
				if errs != nil {
					if err := <-errs; err != nil {
						return err
					}
				}
				return nil
			}
			if err := b.Apply(e); err != nil {
				log.WithField("kind", e.Kind).Warnf("dropping event: %v", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return err
			}
		case <-ticker.C:
			reconcile()
		}
	}
}
