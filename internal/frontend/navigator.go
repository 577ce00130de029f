package frontend

import (
	"context"

	"rxintel/domain/section"
)

// NavigateToSection shows section id and hides the others. An unknown id leaves the
// page untouched. Arriving on the dashboard triggers a health check and a stats load;
// see Bind for when these run in the background.
func (c *Controller) NavigateToSection(ctx context.Context, id section.ID, updateFragment bool) {
	shown := false
	c.locked(func() {
		if !c.view.HasSection(id) {
			c.logger.Debug("ignoring navigation to unknown section %q", id)
			return
		}
		c.view.DeactivateAllSections()
		c.view.ActivateSection(id)
		c.view.HighlightNav(id)
		if updateFragment {
			c.view.SetFragment(id.Fragment())
		}
		c.view.ScrollToTop()
		c.active = id
		shown = true
	})

	if shown && id == section.Dashboard {
		c.refreshDashboard(ctx)
	}
}

// refreshDashboard checks health and reloads the stats. A bound controller does
// the health check on its own context so the caller returns at once.
func (c *Controller) refreshDashboard(ctx context.Context) {
	var bg context.Context
	c.locked(func() { bg = c.bg })
	if bg == nil {
		c.CheckSystemHealth(ctx)
		c.LoadStats()
		return
	}

	c.LoadStats()
	c.pollOnce.Do(func() {
		c.locked(func() { c.polling = true })
		go c.Run(bg)
	})
	go func() {
		c.CheckSystemHealth(bg)
		c.LoadStats()
	}()
}

// OnFragmentChange follows back/forward navigation. The fragment is already in the
// address bar, so it is not written again.
func (c *Controller) OnFragmentChange(ctx context.Context, fragment string) {
	id := section.FromFragment(fragment)
	if id == "" {
		id = section.Home
	}
	c.NavigateToSection(ctx, id, false)
}
