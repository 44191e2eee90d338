package main

import (
	"fmt"

	"github.com/npillmayer/scorekit/internal/metastore"
	"github.com/npillmayer/scorekit/internal/report"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runMetaCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configureTracing(flags)
	store := openStore(flags)
	if store == nil {
		fatalf("--store or --db is required")
	}
	defer store.Close()
	name := args["segment"].Value
	if name == "-" || name == "" {
		names, err := store.Names()
		if err != nil {
			fatalf("%v", err)
		}
		data := [][]string{{"Segment", "Measures"}}
		for _, n := range names {
			md, err := store.Load(n)
			if err != nil {
				fatalf("%v", err)
			}
			data = append(data, []string{n, fmt.Sprintf("%d–%d", md.FirstMeasureNumber, md.NextMeasureNumber()-1)})
		}
		report.Print(data)
		return
	}
	md, err := store.Load(name)
	if err != nil {
		fatalf("%v", err)
	}
	report.Print(report.MetadataRows(md))
	sql, ok := store.(*metastore.SQLStore)
	if !ok {
		return
	}
	builds, err := sql.Builds(name)
	if err != nil {
		fatalf("%v", err)
	}
	pterm.Info.Printf("%d builds of segment %s\n", len(builds), name)
	data := [][]string{{"Build", "Measures", "Time"}}
	for _, b := range builds {
		data = append(data, []string{
			b.ID,
			fmt.Sprintf("%d–%d", b.FirstMeasure, b.FirstMeasure+b.MeasureCount-1),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	report.Print(data)
}
