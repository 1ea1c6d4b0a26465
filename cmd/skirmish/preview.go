package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/cory-johannsen/wasteland/internal/game/combat"
)

func runPreview(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var o options
	o.bind(fs)
	asJSON := fs.Bool("json", false, "print the result as JSON instead of a text report")
	quiet := fs.Bool("quiet", false, "omit the tick log from the text report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(o)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.runner.Preview(a.setup)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return writeReport(out, res, !*quiet)
}

// writeReport prints the tick log followed by the post-combat summary.
func writeReport(w io.Writer, res combat.Result, withLog bool) error {
	if withLog {
		for _, line := range res.Log {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Outcome:  %s after %d ticks\n", res.Outcome, res.Duration)
	fmt.Fprintf(w, "Damage:   %d dealt, %d received\n", res.DamageDealt, res.DamageReceived)
	if len(res.Casualties) > 0 {
		fmt.Fprintf(w, "Killed:   %v\n", res.Casualties)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SQUAD\tHEALTH\tLOST\tXP\tMORALE\tINJURY")
	for _, id := range slices.Sorted(maps.Keys(res.SquadHealthLoss)) {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%+.0f\t%s\n",
			id,
			res.FinalHealth[id], res.StartingHealth[id],
			res.SquadHealthLoss[id],
			res.Experience[id],
			res.MoraleDeltas[id],
			res.Injuries[id],
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(res.DamagedEquipment) > 0 {
		fmt.Fprintf(w, "\nDamaged equipment: %v\n", res.DamagedEquipment)
	}
	return nil
}
