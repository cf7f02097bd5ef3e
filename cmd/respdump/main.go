package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/raniellyferreira/respdecode"
	"github.com/raniellyferreira/respdecode/lua"
	"github.com/raniellyferreira/respdecode/protocol"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("respdump", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "TOML configuration file")
	envPath := flags.String("env", ".env", "dotenv file with RESPDUMP_* variables")
	maxDepth := flags.Int("max-depth", 0, "maximum array nesting (overrides config)")
	scriptPath := flags.String("script", "", "Lua script run against each decoded value (as REPLY)")
	quiet := flags.Bool("quiet", false, "only report errors")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: respdump [flags] [file ...]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Decodes RESP captures (plain, gzip or zstd) and prints one line per value:")
		fmt.Fprintln(stderr, "  <input>#<index>  <digest>  <value>")
		fmt.Fprintln(stderr, "Reads stdin when no file is given or a file is \"-\".")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Flags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "respdump %s\n", respdecode.Version)
		return 0
	}

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		fmt.Fprintf(stderr, "respdump: %v\n", err)
		return 1
	}
	if *maxDepth > 0 {
		cfg.Limits.MaxDepth = *maxDepth
	}

	logger := newLogger(stderr, cfg.LogLevel)

	decoder, err := respdecode.New(
		respdecode.WithMaxDepth(cfg.Limits.MaxDepth),
		respdecode.WithMaxBulkLength(cfg.Limits.MaxBulkLength),
		respdecode.WithMaxArrayLength(cfg.Limits.MaxArrayLength),
		respdecode.WithLogger(respdecode.NewZerologLogger(logger)),
	)
	if err != nil {
		logger.Error().Err(err).Msg("invalid decoder configuration")
		return 1
	}

	d := &dumper{
		decoder: decoder,
		out:     stdout,
		logger:  logger,
		quiet:   *quiet,
	}
	if *scriptPath != "" {
		script, err := os.ReadFile(*scriptPath)
		if err != nil {
			logger.Error().Err(err).Str("script", *scriptPath).Msg("failed to read script")
			return 1
		}
		d.engine = lua.NewEngine()
		d.scriptSHA = d.engine.LoadScript(string(script))
	}

	inputs := flags.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	status := 0
	for _, input := range inputs {
		data, err := readInput(input, stdin)
		if err != nil {
			logger.Error().Err(err).Str("input", input).Msg("failed to read input")
			status = 1
			continue
		}
		if !d.dump(input, data) {
			status = 1
		}
	}
	return status
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "respdump").Logger()
}

type dumper struct {
	decoder   *respdecode.Decoder
	engine    *lua.Engine
	scriptSHA string
	out       io.Writer
	logger    zerolog.Logger
	quiet     bool
}

// dump prints every value decoded from data and reports whether the whole
// input was well formed.
func (d *dumper) dump(name string, data []byte) bool {
	values, rest, err := d.decoder.DecodeAll(data)

	for i, v := range values {
		shown := v
		if d.engine != nil {
			out, serr := d.engine.EvalSHA(d.scriptSHA, v)
			if serr != nil {
				d.logger.Error().Err(serr).Str("input", name).Int("index", i).Msg("script failed")
				return false
			}
			shown = out
		}
		if !d.quiet {
			fmt.Fprintf(d.out, "%s#%d\t%016x\t%s\n", name, i, protocol.Digest(v), shown)
		}
	}

	if err != nil {
		d.logger.Error().Err(err).Str("input", name).Msg("malformed input")
		return false
	}
	if len(rest) > 0 {
		d.logger.Warn().Str("input", name).Int("bytes", len(rest)).Msg("trailing incomplete value")
	}
	d.logger.Debug().Str("input", name).Int("values", len(values)).Msg("decoded input")
	return true
}
