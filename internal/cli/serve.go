package cli

import (
	"github.com/mrlokans/highlights-notion-sync/internal/entrypoint"
)

// ServeCmd runs the cron scheduler and the status server
type ServeCmd struct {
	Schedule string `help:"Override SYNC_SCHEDULE (five-field cron expression)"`
	Port     int32  `help:"Override PORT"`
}

func (s *ServeCmd) Run(g *Globals) error {
	cfg := g.Config
	if s.Schedule != "" {
		cfg.Schedule.Cron = s.Schedule
	}
	if s.Port > 0 {
		cfg.HTTP.Port = s.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return entrypoint.Run(g.Context, cfg, g.Version)
}
