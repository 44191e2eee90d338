package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/scorekit/internal/metastore"
	"github.com/npillmayer/scorekit/internal/segdef"
	"github.com/npillmayer/scorekit/segment"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("seg-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for building score segments from definition files.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("build").
		SetDescription("Build a segment from a TOML definition, write its LilyPond file and store its metadata.").
		SetShortDescription("build a segment").
		AddArgument("definition", "segment definition file (TOML)", "").
		AddFlag("output,o", "output LilyPond file (default: definition with extension .ly)", commando.String, "-").
		AddFlag("store,s", "directory of the metadata file store", commando.String, "-").
		AddFlag("db,d", "SQLite metadata database", commando.String, "-").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runBuildCommand)

	commando.
		Register("meta").
		SetDescription("Print the stored metadata of a segment, or list all stored segments.").
		SetShortDescription("show segment metadata").
		AddArgument("segment", "segment name (- lists all segments)", "-").
		AddFlag("store,s", "directory of the metadata file store", commando.String, "-").
		AddFlag("db,d", "SQLite metadata database", commando.String, "-").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runMetaCommand)

	commando.
		Register("view").
		SetDescription("Render a proportional timeline of a segment to a PNG image.").
		SetShortDescription("segment to image").
		AddArgument("definition", "segment definition file (TOML)", "").
		AddFlag("output,o", "output PNG file", commando.String, "seg-tools-view.png").
		AddFlag("width,W", "image width in pixels", commando.Int, 960).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		AddFlag("store,s", "directory of the metadata file store", commando.String, "-").
		AddFlag("db,d", "SQLite metadata database", commando.String, "-").
		AddFlag("verbose,V", "display additional output", commando.Bool, nil).
		SetAction(runViewCommand)

	commando.Parse(nil)
}

// configureTracing sends the traces of all packages to the Go logger.
func configureTracing(flags map[string]commando.FlagValue) {
	level := "Error"
	if mustFlagBool(flags["verbose"], "verbose") {
		level = "Info"
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range []string{"segment", "command", "rhythm", "segdef", "metastore"} {
		conf["trace.scorekit."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// openStore opens the metadata store selected by --db or --store, or
// returns nil if neither is given.
func openStore(flags map[string]commando.FlagValue) metastore.Store {
	if db := mustFlagString(flags["db"], "db"); db != "-" {
		s, err := metastore.OpenSQLStore(db)
		if err != nil {
			fatalf("%v", err)
		}
		return s
	}
	if dir := mustFlagString(flags["store"], "store"); dir != "-" {
		s, err := metastore.NewFileStore(dir)
		if err != nil {
			fatalf("%v", err)
		}
		return s
	}
	return nil
}

// loadDefinition loads a definition and the metadata of the segment it
// continues from.
func loadDefinition(path string, store metastore.Store) (*segdef.Definition, *segment.Metadata) {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("definition path is required")
	}
	def, err := segdef.Load(path)
	if err != nil {
		fatalf("%v", err)
	}
	prevName := def.Segment.Previous
	if prevName == "" {
		return def, nil
	}
	if store == nil {
		fatalf("segment %s continues %s: --store or --db is required", def.Segment.Name, prevName)
	}
	md, err := store.Load(prevName)
	if errors.Is(err, metastore.ErrNotFound) {
		fatalf("previous segment %s has not been built yet", prevName)
	} else if err != nil {
		fatalf("%v", err)
	}
	return def, &md
}

// buildSegment runs the maker of a definition.
func buildSegment(def *segdef.Definition, prev *segment.Metadata) (*segment.Result, error) {
	m, err := def.Maker(prev)
	if err != nil {
		return nil, err
	}
	return m.Run()
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "seg-tools: "+format+"\n", args...)
	os.Exit(1)
}
