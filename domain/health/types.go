// Package health classifies front-end and backend components as online or offline.
package health

import (
	"fmt"
	"time"

	"rxintel/domain/analysis"
)

// Component names a monitored subsystem.
type Component string

const (
	ComponentFrontend Component = "frontend"
	ComponentBackend  Component = "backend"
	ComponentNER      Component = "ner"
	ComponentTextract Component = "textract"
)

// Components lists monitored subsystems in display order.
var Components = []Component{ComponentFrontend, ComponentBackend, ComponentNER, ComponentTextract}

// Status is the two-state classification of a component.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// States the backend reports for its subsystems. Only these exact values mean "up";
// anything else, including the backend's own "not_loaded"/"not_configured", is offline.
const (
	NERInitialized     = "initialized"
	TextractConfigured = "configured"
)

// ComponentHealth is the status of one component with its human label.
type ComponentHealth struct {
	Component Component
	Status    Status
	Label     string
}

// Online reports whether the component is up.
func (c ComponentHealth) Online() bool { return c.Status == StatusOnline }

// Snapshot is the full result of one health check. It is never merged with an earlier one.
type Snapshot struct {
	Components map[Component]ComponentHealth
	Latency    time.Duration
	// BackendReachable is true when the backend answered with success.
	BackendReachable bool
	CheckedAt        time.Time
}

// Get returns the health of one component.
func (s Snapshot) Get(c Component) ComponentHealth {
	return s.Components[c]
}

// LatencyLabel renders the measured round trip in whole milliseconds.
func (s Snapshot) LatencyLabel() string {
	if !s.BackendReachable {
		return "--"
	}
	return fmt.Sprintf("%dms", s.Latency.Milliseconds())
}

func online(c Component, label string) ComponentHealth {
	return ComponentHealth{Component: c, Status: StatusOnline, Label: label}
}

func offline(c Component, label string) ComponentHealth {
	return ComponentHealth{Component: c, Status: StatusOffline, Label: label}
}

// Derive interprets a health response. resp may be nil when the request failed; the
// frontend is online regardless since this code ran.
func Derive(resp *analysis.HealthResponse, latency time.Duration, checkedAt time.Time) Snapshot {
	snap := Snapshot{
		Components: map[Component]ComponentHealth{
			ComponentFrontend: online(ComponentFrontend, "Online"),
		},
		Latency:   latency,
		CheckedAt: checkedAt,
	}

	if resp == nil || !resp.Backend.Success {
		snap.Components[ComponentBackend] = offline(ComponentBackend, "Offline")
		snap.Components[ComponentNER] = offline(ComponentNER, "Offline")
		snap.Components[ComponentTextract] = offline(ComponentTextract, "Offline")
		return snap
	}

	snap.BackendReachable = true
	snap.Components[ComponentBackend] = online(ComponentBackend, "Online")

	var comps analysis.Components
	if resp.Backend.Data != nil {
		comps = resp.Backend.Data.Components
	}
	if comps.NERModel == NERInitialized {
		snap.Components[ComponentNER] = online(ComponentNER, "Loaded")
	} else {
		snap.Components[ComponentNER] = offline(ComponentNER, "Not Loaded")
	}
	if comps.Textract == TextractConfigured {
		snap.Components[ComponentTextract] = online(ComponentTextract, "Configured")
	} else {
		snap.Components[ComponentTextract] = offline(ComponentTextract, "Not Configured")
	}
	return snap
}
