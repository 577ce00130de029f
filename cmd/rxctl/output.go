package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"rxintel/domain/analysis"
	"rxintel/domain/health"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", f)
}

type componentReport struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Label  string `json:"label" yaml:"label"`
}

type healthReport struct {
	Components []componentReport `json:"components" yaml:"components"`
	Latency    string            `json:"latency" yaml:"latency"`
	Reachable  bool              `json:"backend_reachable" yaml:"backend_reachable"`
}

func newHealthReport(snap health.Snapshot) healthReport {
	r := healthReport{Latency: snap.LatencyLabel(), Reachable: snap.BackendReachable}
	for _, c := range health.Components {
		h := snap.Get(c)
		r.Components = append(r.Components, componentReport{Name: string(c), Status: string(h.Status), Label: h.Label})
	}
	return r
}

// encode writes v as JSON or YAML. It reports false for the text format.
func encode(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

var fieldTitles = map[analysis.Field]string{
	analysis.FieldMedications: "Medications",
	analysis.FieldDoses:       "Doses",
	analysis.FieldRoutes:      "Routes",
	analysis.FieldFrequencies: "Frequencies",
}

func printResult(w io.Writer, format string, r *analysis.Result) error {
	if done, err := encode(w, format, r); done {
		return err
	}
	for _, f := range analysis.ListFields {
		entries := r.List(f)
		if len(entries) == 0 {
			fmt.Fprintf(w, "%s: none found\n", fieldTitles[f])
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", fieldTitles[f], strings.Join(entries, ", "))
	}
	if r.RawText != "" {
		fmt.Fprintf(w, "\nRaw text:\n%s\n", r.RawText)
	}
	return nil
}

func printHealth(w io.Writer, format string, snap health.Snapshot) error {
	report := newHealthReport(snap)
	if done, err := encode(w, format, report); done {
		return err
	}
	for _, c := range report.Components {
		fmt.Fprintf(w, "%-10s %-8s %s\n", c.Name, c.Status, c.Label)
	}
	fmt.Fprintf(w, "latency    %s\n", report.Latency)
	return nil
}
