// options.go - Command-line option parsing

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const appVersion = "1.1.3"

// Prelude speed tuning. The command-line value is a small integer divided by
// ten: 9 means 90% of the hymn's normal speed.
const (
	defaultPreludeSpeed = 0.90
	preludeMinSpeed     = 0.5
	preludeMaxSpeed     = 2.0
	preludeSpeedDivisor = 10.0
)

// errVersionRequested signals that -v was given and the version was printed.
var errVersionRequested = errors.New("version requested")

// Options holds the parsed command line. Verses stays 0 when the caller gave
// no count so the file-embedded value (or the default) applies.
type Options struct {
	bpm         int
	verses      int
	usecPerBeat int

	speed           float64
	staging         bool
	prePost         bool
	playIntro       bool
	verbose         bool
	displayWarnings bool

	fileName  string
	urlName   string
	title     string
	stopsFile string
}

func NewOptions() *Options {
	return &Options{
		speed:     1.0,
		playIntro: true,
	}
}

// Parse reads the command line. Returns errVersionRequested after printing
// the version, flag.ErrHelp after printing usage, or another error for an
// invalid command line.
func (o *Options) Parse(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.Usage = func() { o.printUsage(fs.Output()) }

	fs.Func("n", "play the introduction followed by `verses` verses", func(v string) error {
		return o.handleVerses(v, true)
	})
	fs.Func("x", "number of `verses` to play without introduction", func(v string) error {
		return o.handleVerses(v, false)
	})

	preludeFn := func(v string) error {
		o.handlePrelude(v)
		return nil
	}
	fs.Func("prelude", "prelude/postlude; optional `speed`, default 9 (90%), 10 is 100%", preludeFn)
	fs.Func("p", "shorthand for -prelude", preludeFn)
	fs.Func("tempo", "force tempo to `bpm` beats per minute", o.handleTempo)
	fs.Func("t", "shorthand for -tempo", o.handleTempo)

	fs.BoolVar(&o.staging, "staging", false, "play the file from the staging directory")
	fs.BoolVar(&o.staging, "s", false, "shorthand for -staging")
	fs.StringVar(&o.stopsFile, "stops", "", "YAML `file` with stop definitions")
	fs.StringVar(&o.title, "title", "", "hymn `title`")
	fs.StringVar(&o.title, "T", "", "shorthand for -title")
	fs.BoolVar(&o.verbose, "V", false, "verbose output")
	fs.BoolVar(&o.verbose, "verbose", false, "verbose output")
	fs.BoolVar(&o.displayWarnings, "W", false, "display warnings")
	fs.BoolVar(&o.displayWarnings, "warnings", false, "display warnings")
	version := fs.Bool("v", false, "version of this command")
	fs.BoolVar(version, "version", false, "version of this command")

	if err := fs.Parse(normalizeArgs(args)); err != nil {
		return err
	}

	if *version {
		o.printVersion()
		return errVersionRequested
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, msgPrinter.Sprintf("No filename provided. You must pass a file name to play."))
		return errors.New("missing filename")
	}
	o.fileName = rest[0]
	if len(rest) > 1 {
		o.urlName = rest[1]
	}
	for _, arg := range rest[2:] {
		fmt.Fprintln(os.Stderr, msgPrinter.Sprintf("Unrecognized argument: %s", arg))
	}

	return nil
}

// normalizeArgs rewrites the getopt-style spellings the flag package
// rejects: a bare prelude flag with no value, and attached numeric values
// like -n3, -x2, -t90 and -p9.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch a {
		case "-p", "--p", "-prelude", "--prelude":
			out = append(out, "-prelude=")
			continue
		}
		if name, value, ok := splitAttachedValue(a); ok {
			out = append(out, "-"+name+"="+value)
			continue
		}
		out = append(out, a)
	}
	return out
}

// splitAttachedValue recognizes -n3, -x2, -t90 and -p9 (single or double
// dash) and returns the flag name and the attached digits.
func splitAttachedValue(arg string) (name, value string, ok bool) {
	body := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if body == arg || len(body) < 2 {
		return "", "", false
	}
	switch body[0] {
	case 'n', 'x', 't', 'p':
	default:
		return "", "", false
	}
	for _, r := range body[1:] {
		if r < '0' || r > '9' {
			return "", "", false
		}
	}
	name = string(body[0])
	if name == "p" {
		name = "prelude"
	}
	return name, body[1:], true
}

func (o *Options) handleVerses(arg string, playIntro bool) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return fmt.Errorf("verse count must be a positive integer, got %q", arg)
	}
	o.verses = n
	o.playIntro = playIntro
	return nil
}

func (o *Options) handleTempo(arg string) error {
	bpm, err := strconv.Atoi(arg)
	if err != nil || bpm <= 0 {
		msgPrinter.Println(msgPrinter.Sprintf("Tempo must be numeric. Exiting program."))
		return fmt.Errorf("invalid tempo %q", arg)
	}
	o.bpm = bpm
	o.usecPerBeat = microsecondsPerMinute / bpm
	return nil
}

// handlePrelude switches to prelude/postlude mode: two verses, no
// introduction, reduced speed. An out-of-range speed falls back to normal.
func (o *Options) handlePrelude(arg string) {
	o.verses = 2
	o.playIntro = false
	o.prePost = true

	if arg == "" {
		o.speed = defaultPreludeSpeed
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	speed := float64(n) / preludeSpeedDivisor
	if speed < preludeMinSpeed || speed > preludeMaxSpeed {
		o.speed = 1.0
	} else {
		o.speed = speed
	}
}

func (o *Options) printVersion() {
	msgPrinter.Println(msgPrinter.Sprintf("Organ Pi play MIDI file command"))
	msgPrinter.Println("===============================")
	msgPrinter.Printf("  Version %s\n\n", semanticVersion())
}

func (o *Options) printUsage(w io.Writer) {
	fmt.Fprintf(w, "Organ Pi play MIDI file command, version %s\n", semanticVersion())
	fmt.Fprint(w, "===============================================\n\n")
	fmt.Fprint(w, "Usage:\n\n")
	fmt.Fprint(w, "play <filename> options\n\n")
	fmt.Fprintln(w, "  -n<verses>            play the introduction followed by the specified number of verses")
	fmt.Fprintln(w, "  --prelude=<speed> -p  prelude/postlude; <speed> is optional, default is 9 (90%), 10 is 100%;")
	fmt.Fprintln(w, "                        plays 2 verses by default, modified by -x<verses>")
	fmt.Fprintln(w, "  --staging -s          play the file from the staging directory, if present")
	fmt.Fprintln(w, "  --tempo=<bpm> -t<bpm> force tempo to the specified number of beats per minute")
	fmt.Fprintln(w, "  --version -v          version of this command")
	fmt.Fprintln(w, "  -x<verses>            number of verses to play without introduction")
}

var semverPattern = regexp.MustCompile(`(?:^|-|n|v|V)([0-9]+\.[0-9]+\.[0-9]+)`)

// semanticVersion extracts the numeric version from the build tag, which may
// carry a v or release-name prefix.
func semanticVersion() string {
	if m := semverPattern.FindStringSubmatch(appVersion); len(m) > 1 {
		return m[1]
	}
	return "not found"
}

// ResolvePath expands the hymn file name into a playable path: the music
// directory, the optional staging subdirectory, and a .mid extension when
// the name doesn't already carry one.
func (o *Options) ResolvePath() string {
	name := o.fileName
	if !strings.HasSuffix(name, ".mid") {
		name += ".mid"
	}

	dir := os.Getenv("MIDIPLAY_MUSIC_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = home + "/Music/midihymns"
	}
	if o.staging {
		dir += "/staging"
	}
	return dir + "/" + name
}

func (o *Options) BPM() int              { return o.bpm }
func (o *Options) Verses() int           { return o.verses }
func (o *Options) UsecPerBeat() int      { return o.usecPerBeat }
func (o *Options) Speed() float64        { return o.speed }
func (o *Options) IsStaging() bool       { return o.staging }
func (o *Options) IsPrePost() bool       { return o.prePost }
func (o *Options) IsPlayIntro() bool     { return o.playIntro }
func (o *Options) IsVerbose() bool       { return o.verbose }
func (o *Options) DisplayWarnings() bool { return o.displayWarnings }
func (o *Options) FileName() string      { return o.fileName }
func (o *Options) URLName() string       { return o.urlName }
func (o *Options) Title() string         { return o.title }
func (o *Options) StopsFile() string     { return o.stopsFile }
