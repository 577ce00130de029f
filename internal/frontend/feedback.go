package frontend

import (
	"time"

	"rxintel/domain/core"
	"rxintel/ports"
)

// Overlay is the page-wide busy indicator. The element is created on first use and
// reused afterwards.
type Overlay struct {
	view    ports.FeedbackView
	created bool
	visible bool
	message string
}

// Show displays the overlay with message, creating it if needed.
func (o *Overlay) Show(message string) {
	if !o.created {
		o.view.CreateOverlay()
		o.created = true
	}
	o.visible = true
	o.message = message
	o.view.SetOverlay(true, message)
}

// Hide conceals the overlay. It is a no-op before the first Show.
func (o *Overlay) Hide() {
	if !o.created {
		return
	}
	o.visible = false
	o.view.SetOverlay(false, o.message)
}

// Visible reports whether the overlay is currently shown.
func (o *Overlay) Visible() bool { return o.visible }

// Notifier stacks transient toasts that dismiss themselves after ttl.
type Notifier struct {
	view  ports.FeedbackView
	clock ports.Clock
	ttl   time.Duration
	// sync serialises the dismissal callback with controller operations.
	sync func(func())
}

// Show adds a toast; the caller holds the controller lock.
func (n *Notifier) Show(message string, kind ports.NotificationKind) core.ToastID {
	id := core.NewToastID()
	n.view.AddToast(id, message, kind)
	n.clock.AfterFunc(n.ttl, func() {
		n.sync(func() { n.view.RemoveToast(id) })
	})
	return id
}

// withLoading shows the overlay, runs call without holding the controller lock and
// hides the overlay once call settles, including when it panics.
func withLoading[T any](c *Controller, message string, call func() (T, error)) (T, error) {
	c.locked(func() { c.overlay.Show(message) })
	defer c.locked(func() { c.overlay.Hide() })
	return call()
}
