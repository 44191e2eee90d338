package main

import (
	"errors"
	"strings"

	"github.com/npillmayer/scorekit/internal/report"
	"github.com/npillmayer/scorekit/segment"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runBuildCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configureTracing(flags)
	store := openStore(flags)
	if store != nil {
		defer store.Close()
	}
	path := strings.TrimSpace(args["definition"].Value)
	def, prev := loadDefinition(path, store)
	res, err := buildSegment(def, prev)
	var cerr segment.CheckError
	if errors.As(err, &cerr) {
		report.Print(report.ViolationRows(cerr.Violations))
	}
	if err != nil {
		fatalf("%v", err)
	}
	out := mustFlagString(flags["output"], "output")
	if out == "-" {
		out = replaceExt(path, ".ly")
	}
	if err := res.WriteFile(out); err != nil {
		fatalf("%v", err)
	}
	if store != nil {
		if err := store.Save(def.Segment.Name, res.Metadata); err != nil {
			fatalf("%v", err)
		}
	}
	pterm.Info.Printf("segment %s: measures %d–%d written to %s\n", def.Segment.Name,
		res.Metadata.FirstMeasureNumber, res.Metadata.NextMeasureNumber()-1, out)
	report.Print(report.StageRows(res))
	if len(res.Violations) > 0 {
		report.Print(report.ViolationRows(res.Violations))
	}
}
