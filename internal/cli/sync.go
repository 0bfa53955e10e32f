package cli

import (
	"fmt"
	"time"

	"github.com/mrlokans/highlights-notion-sync/internal/database"
	"github.com/mrlokans/highlights-notion-sync/internal/database/runs"
	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/services"
)

// SyncCmd runs a single sync and prints a summary
type SyncCmd struct {
	Delay   time.Duration `help:"Override SYNC_DELAY, the pause after each highlight"`
	History string        `help:"Override SYNC_HISTORY_PATH, the sqlite file recording runs"`
}

func (s *SyncCmd) Run(g *Globals) error {
	cfg := g.Config
	if s.Delay > 0 {
		cfg.Sync.Delay = s.Delay
	}
	if s.History != "" {
		cfg.History.Path = s.History
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var history *runs.Repository
	if cfg.History.Path != "" {
		db, err := database.NewDatabase(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer db.Close()
		history = runs.NewRepository(db.DB)
	}

	fmt.Fprintf(g.Out, "Syncing Readwise highlights to Notion database %s\n", cfg.Notion.DatabaseID)

	result, err := services.NewSyncService(cfg, history).Run(g.Context, entities.SyncTriggerManual)
	if err != nil {
		fmt.Fprintf(g.Out, "Sync failed after %d page(s): fetched=%d created=%d\n", result.Pages, result.Fetched, result.Created)
		return err
	}

	fmt.Fprintf(g.Out, "fetched=%d created=%d\n", result.Fetched, result.Created)
	fmt.Fprintf(g.Out, "Done in %v: %d updated, %d unchanged, %d skipped across %d page(s)\n",
		result.Duration.Round(time.Millisecond), result.Updated, result.Unchanged, result.Skipped, result.Pages)
	return nil
}
