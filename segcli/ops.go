package main

import (
	"errors"

	"github.com/npillmayer/scorekit/internal/report"
	"github.com/pterm/pterm"
)

func loadOp(intp *Intp, op *Op) (error, bool) {
	path, ok := op.arg(0)
	if !ok {
		if intp.path == "" {
			return errors.New("usage: load <definition>"), false
		}
		path = intp.path // reload
	}
	return intp.load(path), false
}

func runOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.run(); err != nil {
		return err, false
	}
	res := intp.res
	pterm.Printf("segment %s: %d stages, %d violations", res.Metadata.Segment, len(res.Stages), len(res.Violations))
	if res.Seconds > 0 {
		pterm.Printf(", %.1f seconds", res.Seconds)
	}
	pterm.Println()
	return nil, false
}

func lyOp(intp *Intp, op *Op) (error, bool) {
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	if voice, ok := op.arg(0); ok {
		ly := res.Voice(voice)
		if ly == "" {
			return errors.New("no voice " + voice), false
		}
		pterm.Println(ly)
		return nil, false
	}
	pterm.Println(res.Lilypond())
	return nil, false
}

func metaOp(intp *Intp, op *Op) (error, bool) {
	if name, ok := op.arg(0); ok {
		if intp.store == nil {
			return errors.New("no metadata store is open"), false
		}
		md, err := intp.store.Load(name)
		if err != nil {
			return err, false
		}
		report.Print(report.MetadataRows(md))
		return nil, false
	}
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	report.Print(report.MetadataRows(res.Metadata))
	return nil, false
}

func saveOp(intp *Intp, op *Op) (error, bool) {
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	if intp.store == nil {
		return errors.New("no metadata store is open"), false
	}
	if err := intp.store.Save(res.Metadata.Segment, res.Metadata); err != nil {
		return err, false
	}
	if path, ok := op.arg(0); ok {
		if err := res.WriteFile(path); err != nil {
			return err, false
		}
	}
	pterm.Info.Printf("segment %s saved\n", res.Metadata.Segment)
	return nil, false
}

func stagesOp(intp *Intp, op *Op) (error, bool) {
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	report.Print(report.StageRows(res))
	return nil, false
}

func voicesOp(intp *Intp, op *Op) (error, bool) {
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	report.Print(report.VoiceRows(res.Score))
	return nil, false
}

func checksOp(intp *Intp, op *Op) (error, bool) {
	res, err := intp.result()
	if err != nil {
		return err, false
	}
	printViolations(res.Violations)
	return nil, false
}
