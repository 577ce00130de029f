package frontend

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rxintel/domain/analysis"
	"rxintel/domain/section"
)

func TestNavigateToSection(t *testing.T) {
	c, view, _ := newTestController(&mockAPI{})

	c.NavigateToSection(context.Background(), section.About, true)

	assert.Equal(t, []section.ID{section.About}, view.activeSections())
	assert.Equal(t, section.About, view.nav)
	assert.Equal(t, "#about", view.fragment)
	assert.Equal(t, 1, view.scrollTops)
	assert.Equal(t, section.About, c.ActiveSection())
}

func TestNavigateUnknownSectionIsNoop(t *testing.T) {
	c, view, _ := newTestController(&mockAPI{})
	c.NavigateToSection(context.Background(), section.Upload, true)

	assert.NotPanics(t, func() {
		c.NavigateToSection(context.Background(), section.ID("pricing"), true)
	})

	assert.Equal(t, []section.ID{section.Upload}, view.activeSections())
	assert.Equal(t, section.Upload, view.nav)
	assert.Equal(t, "#upload", view.fragment)
	assert.Equal(t, section.Upload, c.ActiveSection())
}

func TestFragmentChangeDoesNotRewriteFragment(t *testing.T) {
	c, view, _ := newTestController(&mockAPI{})
	view.fragment = "#contact"

	c.OnFragmentChange(context.Background(), "#contact")
	assert.Equal(t, []section.ID{section.Contact}, view.activeSections())
	assert.Equal(t, "#contact", view.fragment)

	view.fragment = ""
	c.OnFragmentChange(context.Background(), "")
	assert.Equal(t, []section.ID{section.Home}, view.activeSections())
	assert.Equal(t, "", view.fragment)
}

func TestNavigateToDashboardChecksHealthAndLoadsStats(t *testing.T) {
	api := &mockAPI{}
	c, view, _ := newTestController(api)
	api.On("Health", mock.Anything).Return(onlineHealth(), nil).Once()

	c.NavigateToSection(context.Background(), section.Dashboard, true)

	api.AssertExpectations(t)
	assert.Len(t, view.health, 4)
	assert.Equal(t, "Never", view.stats.LastAnalysis)
}

func TestNavigateToOtherSectionDoesNotCheckHealth(t *testing.T) {
	api := &mockAPI{}
	c, _, _ := newTestController(api)

	c.NavigateToSection(context.Background(), section.Upload, true)

	api.AssertNotCalled(t, "Health", mock.Anything)
}

// gatedAPI holds every health check until gate is closed.
type gatedAPI struct {
	mockAPI
	gate   chan struct{}
	checks atomic.Int32
}

func (a *gatedAPI) Health(ctx context.Context) (*analysis.HealthResponse, error) {
	select {
	case <-a.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	a.checks.Add(1)
	return onlineHealth(), nil
}

func TestBoundDashboardRefreshRunsInBackground(t *testing.T) {
	api := &gatedAPI{gate: make(chan struct{})}
	c, view, _ := newTestController(api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Bind(ctx)
	assert.False(t, c.Polling())

	done := make(chan struct{})
	go func() {
		c.NavigateToSection(context.Background(), section.Dashboard, true)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("navigation waited for the health check")
	}

	assert.Equal(t, section.Dashboard, c.ActiveSection())
	assert.True(t, c.Polling())
	assert.Zero(t, api.checks.Load())

	close(api.gate)
	assert.Eventually(t, func() bool {
		var checks int
		c.Inspect(func() { checks = view.stats.HealthChecks })
		return checks == 1
	}, time.Second, 5*time.Millisecond)
	c.Inspect(func() { assert.Len(t, view.health, 4) })
}

func TestBoundRefreshStopsWithContext(t *testing.T) {
	api := &gatedAPI{gate: make(chan struct{})}
	c, view, _ := newTestController(api)
	ctx, cancel := context.WithCancel(context.Background())
	c.Bind(ctx)

	c.NavigateToSection(context.Background(), section.Dashboard, true)
	cancel()

	assert.Eventually(t, func() bool {
		var latency string
		c.Inspect(func() { latency = view.latency })
		return latency != ""
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, api.checks.Load())
}
