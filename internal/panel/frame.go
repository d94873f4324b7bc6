package panel

import (
	"time"

	"github.com/dshills/panelkit/internal/config"
)

// Update runs one frame: scheduled items, pending layout, focus recovery,
// repaint, and finally any configuration handed over by ApplyConfig.
func (p *Panel) Update(now time.Time) {
	p.scheduler.Tick(now)
	p.layout.ApplyPendingLayout()
	p.focus.Watchdog()

	if p.dirty {
		p.dirty = false
		p.repainter.Repaint()
	}

	if cfg := p.pending.Swap(nil); cfg != nil {
		p.applyConfig(cfg)
	}
}

// ApplyConfig hands a new configuration to the panel. It takes effect at
// the end of the next Update. ApplyConfig is safe to call from any
// goroutine, typically a config.Watcher callback.
func (p *Panel) ApplyConfig(cfg *config.Config) {
	if cfg != nil {
		p.pending.Store(cfg)
	}
}

func (p *Panel) applyConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		p.logger.Error().Err(err).Msg("rejecting configuration")
		return
	}
	if err := p.engine.SetLimits(cfg.Limits()); err != nil {
		p.logger.Error().Err(err).Msg("rejecting dispatch limits")
		return
	}
	p.clicks.SetLimits(cfg.Pointer.MultiClickTime.Std(), cfg.Pointer.MultiClickDistance)
	p.focus.SetWatchdog(cfg.Focus.Watchdog)
	p.cfg = cfg

	p.logger.Info().
		Int("high_water", cfg.Dispatch.HighWater).
		Int("ceiling", cfg.Dispatch.Ceiling).
		Msg("configuration applied")
}
