package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/stubreg/globals"
)

// slotReport is one row of the trace report. Order counts the sequence
// in which this run found slots resolved; slots that fail carry no
// order.
type slotReport struct {
	Slot       string  `json:"slot"`
	Target     string  `json:"target,omitempty"`
	Outcome    string  `json:"outcome"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Order      int     `json:"order,omitempty"`
}

func newTraceCmd(configPath *string) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Resolve every slot and report outcome, timing and order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, *configPath, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}

func runTrace(cmd *cobra.Command, configPath string, jsonOut bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Diagnostics.Trace = true

	rt, err := globals.Bootstrap(cmd.Context(), cfg, slog.Default())
	if err != nil {
		return err
	}
	defer rt.Close()

	var reports []slotReport
	order := 0
	failed := 0
	for _, s := range rt.Registry.Slots() {
		r := slotReport{Slot: s.Name(), Target: s.TargetType()}
		if s.Ready() {
			r.Outcome = "eager"
		} else {
			start := time.Now()
			err := s.ForceResolve()
			r.DurationMS = float64(time.Since(start).Microseconds()) / 1000.0
			if err != nil {
				r.Outcome = "error"
				r.Error = err.Error()
			} else {
				r.Outcome = "ok"
			}
		}
		if r.Outcome == "error" {
			failed++
		} else {
			order++
			r.Order = order
		}
		reports = append(reports, r)
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		for _, r := range reports {
			switch r.Outcome {
			case "error":
				cmd.Printf("✗ %-20s %s\n", r.Slot, r.Error)
			case "eager":
				cmd.Printf("✓ %-20s eager (order %d)\n", r.Slot, r.Order)
			default:
				cmd.Printf("✓ %-20s ok in %.2fms (order %d)\n", r.Slot, r.DurationMS, r.Order)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d slots failed to resolve", failed, len(reports))
	}
	return nil
}
