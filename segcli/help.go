package main

import (
	"strings"

	"github.com/npillmayer/scorekit/internal/report"
	"github.com/npillmayer/scorekit/internal/segdef"
	"github.com/npillmayer/scorekit/segment"
	"github.com/npillmayer/scorekit/template"
	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic, _ := op.arg(0)
	help(topic)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "command", "commands":
		pterm.Info.Println("Command types of segment definitions")
		pterm.Println("\t" + strings.Join(segdef.CommandTypes(), "\n\t"))
	case "template", "templates":
		pterm.Info.Println("Score templates")
		pterm.Println("\t" + strings.Join(template.Names(), "\n\t"))
	case "selector", "selectors":
		pterm.Info.Println("Selectors")
		pterm.Println(`
	leaves       all leaves
	pitched      pitched leaves
	rests        rests
	plts         leaves of pitched logical ties
	plt:i        the i-th pitched logical tie
	leaf:i       the i-th leaf
	leaves:i:j   leaves i…j-1
	Selectors may be chained, separated by blanks, e.g. "pitched leaf:0".
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load [file]     load (or reload) a segment definition
	run             run the segment maker
	ly [voice]      print the LilyPond source of the segment or of a voice
	meta [segment]  print the metadata of the segment, or of a stored one
	stages          list the stages of the segment
	voices          list the voices of the segment
	checks          list check violations
	save [file.ly]  store the metadata (and write the LilyPond file)
	help [topic]    topics: commands, templates, selectors
	quit            leave the CLI
	`)
	}
}

func printViolations(violations []segment.Violation) {
	if len(violations) == 0 {
		pterm.Info.Println("no violations")
		return
	}
	report.Print(report.ViolationRows(violations))
}
