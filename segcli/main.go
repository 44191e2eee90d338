package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/scorekit/internal/metastore"
	"github.com/npillmayer/scorekit/internal/segdef"
	"github.com/npillmayer/scorekit/segment"
	"github.com/pterm/pterm"
)

// tracer traces with key 'scorekit.cli'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.scorekit.cli":     "Info",
		"trace.scorekit.segment": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	defname := flag.String("def", "", "Segment definition to load")
	storeDir := flag.String("store", "", "Directory of the metadata file store")
	dbPath := flag.String("db", "", "SQLite metadata database")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)      // will set the correct level later
	pterm.Info.Println("Welcome to the segment CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("seg > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	if intp.store, err = openStore(*storeDir, *dbPath); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	if intp.store != nil {
		defer intp.store.Close()
	}
	if *defname != "" {
		if err := intp.load(*defname); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
		tracing.Select("scorekit.segment").SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func openStore(dir, db string) (metastore.Store, error) {
	switch {
	case db != "":
		return metastore.OpenSQLStore(db)
	case dir != "":
		return metastore.NewFileStore(dir)
	}
	return nil, nil
}

// Intp is our interpreter object
type Intp struct {
	repl  *readline.Instance
	store metastore.Store
	path  string
	def   *segdef.Definition
	res   *segment.Result
}

func (intp *Intp) String() string {
	if intp == nil || intp.def == nil {
		return "()"
	}
	state := "not run"
	if intp.res != nil {
		state = fmt.Sprintf("%d violations", len(intp.res.Violations))
	}
	return fmt.Sprintf("( segment=%s, %s )", intp.def.Segment.Name, state)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		op := parseOp(line)
		err, quit := intp.execute(op)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line: an op-code and its arguments.
type Op struct {
	code int
	args []string
}

const (
	QUIT int = iota
	HELP
	LOAD
	RUN
	LY
	META
	STAGES
	VOICES
	CHECKS
	SAVE
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"load":   LOAD,
	"run":    RUN,
	"ly":     LY,
	"meta":   META,
	"stages": STAGES,
	"voices": VOICES,
	"checks": CHECKS,
	"save":   SAVE,
}

func parseOp(line string) *Op {
	fields := strings.Fields(line)
	code, ok := opMap[strings.ToLower(fields[0])]
	if !ok {
		code = HELP
	}
	op := &Op{code: code, args: fields[1:]}
	tracer().Debugf("parsed command: %v", fields)
	return op
}

func (op *Op) arg(i int) (string, bool) {
	if i < len(op.args) {
		return op.args[i], true
	}
	return "", false
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	LOAD:   loadOp,
	RUN:    runOp,
	LY:     lyOp,
	META:   metaOp,
	STAGES: stagesOp,
	VOICES: voicesOp,
	CHECKS: checksOp,
	SAVE:   saveOp,
}

func (intp *Intp) execute(op *Op) (error, bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Segments ----------------------------------------------------------

var ErrNoDefinition = errors.New("no segment definition loaded")
var ErrNotRun = errors.New("segment has not been run")

func (intp *Intp) load(path string) error {
	def, err := segdef.Load(path)
	if err != nil {
		return err
	}
	intp.path, intp.def, intp.res = path, def, nil
	pterm.Printf("segment %s: %d measures, %d commands\n", def.Segment.Name,
		len(def.Segment.TimeSignatures), len(def.Commands))
	return nil
}

func (intp *Intp) previous() (*segment.Metadata, error) {
	name := intp.def.Segment.Previous
	if name == "" {
		return nil, nil
	}
	if intp.store == nil {
		return nil, fmt.Errorf("segment continues %s, but no metadata store is open", name)
	}
	md, err := intp.store.Load(name)
	if err != nil {
		return nil, err
	}
	return &md, nil
}

func (intp *Intp) run() error {
	if intp.def == nil {
		return ErrNoDefinition
	}
	prev, err := intp.previous()
	if err != nil {
		return err
	}
	m, err := intp.def.Maker(prev)
	if err != nil {
		return err
	}
	res, err := m.Run()
	if err != nil {
		var cerr segment.CheckError
		if errors.As(err, &cerr) {
			printViolations(cerr.Violations)
		}
		return err
	}
	intp.res = res
	return nil
}

func (intp *Intp) result() (*segment.Result, error) {
	if intp.def == nil {
		return nil, ErrNoDefinition
	}
	if intp.res == nil {
		return nil, ErrNotRun
	}
	return intp.res, nil
}
