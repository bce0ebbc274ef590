// Command hierarchize builds dominance hierarchies from annotated spans in
// GraphML corpora.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/hierarchizer/core/hierarchy"
	"github.com/FocuswithJustin/hierarchizer/core/orderrel"
	"github.com/FocuswithJustin/hierarchizer/core/props"
	"github.com/FocuswithJustin/hierarchizer/internal/corpus"
	"github.com/FocuswithJustin/hierarchizer/internal/logging"
)

const version = "0.1.0"

// stdout receives command output.
var stdout io.Writer = os.Stdout

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"json" enum:"json,text"`
}

// logger builds the stderr logger and installs it as the package default.
func (g *Globals) logger() *slog.Logger {
	l := logging.New(os.Stderr, logging.ParseLevel(g.LogLevel), logging.ParseFormat(g.LogFormat))
	logging.SetLogger(l)
	return l
}

// CLI defines the command-line interface for hierarchize.
var CLI struct {
	Globals

	Run         RunCmd         `cmd:"" help:"Build hierarchies for every document of the inputs"`
	Split       SplitCmd       `cmd:"" help:"Split multi-annotation spans and tokens into single-annotation spans"`
	Order       OrderCmd       `cmd:"" help:"Chain tokens or segmentation spans with order relations"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print graph fingerprints of every document"`
	Props       PropsCmd       `cmd:"" help:"List hierarchy properties with defaults and effective values"`
	Runs        RunsCmd        `cmd:"" help:"List recorded runs or the documents of one run"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// PropertyFlags selects the property bag of a command.
type PropertyFlags struct {
	Props string   `name:"props" help:"YAML property file" type:"existingfile"`
	Set   []string `name:"set" short:"P" help:"Property assignment key=value, overrides the property file"`
}

// bag merges the property file with the -P assignments.
func (f PropertyFlags) bag() (props.Bag, error) {
	bag := props.Bag{}
	if f.Props != "" {
		loaded, err := props.LoadFile(f.Props)
		if err != nil {
			return nil, err
		}
		bag.Merge(loaded)
	}
	overrides, err := props.ParseAssignments(f.Set)
	if err != nil {
		return nil, err
	}
	bag.Merge(overrides)
	return bag, nil
}

// properties parses and validates the merged bag.
func (f PropertyFlags) properties() (*hierarchy.Properties, props.Bag, error) {
	bag, err := f.bag()
	if err != nil {
		return nil, nil, err
	}
	p, err := hierarchy.ParseProperties(bag)
	if err != nil {
		return nil, nil, err
	}
	return p, bag, nil
}

// OrderFlags configures order relations.
type OrderFlags struct {
	Segmentations string `name:"segmentation-layers" help:"Annotation names whose spans are chained, e.g. {dipl, norm}; empty chains the tokens"`
	TokenType     string `name:"order-token-type" help:"Type of order relations between tokens"`
}

func (f OrderFlags) properties() (*orderrel.Properties, error) {
	return orderrel.ParseProperties(props.Bag{
		orderrel.KeySegmentationLayers: f.Segmentations,
		orderrel.KeyTokenType:          f.TokenType,
	})
}

// OutputFlags selects where processed documents are written.
type OutputFlags struct {
	Out     string `help:"Output directory, or archive file with --archive" type:"path"`
	XZ      bool   `name:"xz" help:"xz-compress output files"`
	Archive bool   `help:"Write a single tar archive (.tar.xz, .tar.gz or .tar) at --out"`
}

// write stores entries and returns the output location of each entry path.
func (f OutputFlags) write(entries []*corpus.Entry) (map[string]string, error) {
	outputs := make(map[string]string, len(entries))
	if f.Out == "" {
		return outputs, nil
	}
	if f.Archive {
		if err := corpus.WriteArchive(f.Out, entries); err != nil {
			return nil, err
		}
		for _, e := range entries {
			outputs[e.Path] = f.Out + "!" + e.Path
		}
		return outputs, nil
	}
	written, err := corpus.WriteDir(f.Out, entries, f.XZ)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		outputs[e.Path] = written[i]
	}
	return outputs, nil
}

func (f OutputFlags) validate() error {
	if f.Archive && f.Out == "" {
		return fmt.Errorf("--archive requires --out")
	}
	if f.Archive && f.XZ {
		return fmt.Errorf("--xz applies to directory output only; pick the archive suffix instead")
	}
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("hierarchize"),
		kong.Description("Build dominance hierarchies from annotated spans"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
