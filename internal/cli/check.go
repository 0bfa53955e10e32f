package cli

import (
	"fmt"
	"strings"

	"github.com/mrlokans/highlights-notion-sync/internal/services"
)

// CheckCmd validates credentials without writing to Notion
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Globals) error {
	if err := g.Config.Validate(); err != nil {
		return err
	}

	result, err := services.NewSyncService(g.Config, nil).Check(g.Context)
	if err != nil {
		return err
	}

	fmt.Fprintln(g.Out, "Readwise token: ok")
	fmt.Fprintf(g.Out, "Notion database: %q ok\n", result.DatabaseTitle)
	if len(result.MissingProperties) > 0 {
		fmt.Fprintf(g.Out, "Warning: database has no %s propert(ies); Notion will reject pages that set them\n",
			strings.Join(result.MissingProperties, ", "))
	}
	return nil
}
