package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/npillmayer/scorekit/internal/report"
	"github.com/npillmayer/scorekit/notation"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	configureTracing(flags)
	store := openStore(flags)
	if store != nil {
		defer store.Close()
	}
	def, prev := loadDefinition(args["definition"].Value, store)
	res, err := buildSegment(def, prev)
	if err != nil {
		fatalf("%v", err)
	}
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	if err := writeTimelinePNG(res.Score, outPath, width, height); err != nil {
		fatalf("%v", err)
	}
	pterm.Info.Printf("timeline of segment %s written to %s\n", def.Segment.Name, outPath)
}

func writeTimelinePNG(score *notation.Container, outPath string, width, height int) error {
	img, err := report.Timeline(score, width, height)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
