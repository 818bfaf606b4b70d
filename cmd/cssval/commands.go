package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssval/css"
	"cssval/mediaquery"
	"cssval/resolve"
	"cssval/state"
	"cssval/style"
	"cssval/stylesheet"
	"cssval/typedom"
)

func runParse(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("parse")

	if cmd.Args().Len() == 0 {
		return errors.New("no declarations have been specified")
	}

	unit := cmd.String("to")

	for _, arg := range cmd.Args().Slice() {
		decls := css.SplitDeclarations(arg)
		if len(decls) == 0 {
			log.Warn("Nothing to parse", zap.String("argument", arg))
			continue
		}
		for _, d := range decls {
			values, err := typedom.ParseAll(env.Reg, d.Name, d.Value)
			if err != nil {
				return fmt.Errorf("unable to parse '%s: %s': %w", d.Name, d.Value, err)
			}
			header := d.Name + ": " + d.Value
			if d.Important {
				header += " !important"
			}
			fmt.Println(header)
			for _, v := range values {
				line := "    " + typeName(v) + " " + v.Serialize(env.Format)
				if n, ok := v.(typedom.Numeric); ok {
					line += " :: " + n.Type().String()
					if unit != "" {
						conv, err := typedom.To(n, unit)
						if err != nil {
							log.Warn("Unable to convert", zap.String("value", v.String()), zap.String("unit", unit), zap.Error(err))
						} else {
							line += " = " + conv.Serialize(env.Format)
						}
					}
				}
				fmt.Println(line)
			}
		}
	}
	return nil
}

func runResolve(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("resolve")

	if cmd.Args().Len() == 0 {
		return errors.New("no lengths have been specified")
	}

	dir, err := parseDirection(cmd.String("dir"))
	if err != nil {
		return err
	}
	vw, vh, err := viewportFromFlags(cmd, env)
	if err != nil {
		return err
	}
	elem := newStaticContext(cmd.Float("font-size"), cmd.Float("root-font-size"), vw, vh)
	log.Debug("Resolution context",
		zap.Float64("font-size", cmd.Float("font-size")),
		zap.Float64("root-font-size", cmd.Float("root-font-size")),
		zap.Float64("vw", vw), zap.Float64("vh", vh))

	unit := cmd.String("to")
	for _, arg := range cmd.Args().Slice() {
		l, err := resolve.Parse(arg)
		if err != nil {
			return fmt.Errorf("unable to parse length %q: %w", arg, err)
		}
		v, err := l.WithContext(elem).WithDirection(dir).Value(unit)
		if err != nil {
			return fmt.Errorf("unable to resolve %q: %w", arg, err)
		}
		fmt.Printf("%s = %s%s\n", arg, env.Format.Float(v), strings.ToLower(unit))
	}
	return nil
}

func runExpand(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("expand")

	if cmd.Args().Len() == 0 {
		return errors.New("no declarations have been specified")
	}

	decl := declarationFromArgs(env, log, cmd.Args().Slice())
	if decl.Len() == 0 {
		return errors.New("no declarations have been recognized")
	}

	for _, name := range decl.Names() {
		fmt.Println(formatDeclaration(name, decl.Get(name), decl.Priority(name)))
	}
	return nil
}

func runCollapse(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("collapse")

	if cmd.Args().Len() == 0 {
		return errors.New("no declarations have been specified")
	}

	decl := declarationFromArgs(env, log, cmd.Args().Slice())
	if decl.Len() == 0 {
		return errors.New("no declarations have been recognized")
	}

	// widest shorthands first, so font consumes its longhands before
	// nested font-variant gets a chance to report a subset
	shorthands := style.Shorthands()
	sort.SliceStable(shorthands, func(i, j int) bool {
		return len(style.LonghandList(shorthands[i])) > len(style.LonghandList(shorthands[j]))
	})

	consumed := make(map[string]bool)
	for _, sh := range shorthands {
		if allConsumed(style.LonghandList(sh), consumed) {
			continue
		}
		v := decl.Get(sh)
		if v == "" {
			continue
		}
		fmt.Println(formatDeclaration(sh, v, decl.Priority(sh)))
		for _, lh := range style.LonghandList(sh) {
			consumed[lh] = true
		}
	}
	for _, name := range decl.Names() {
		if consumed[name] {
			continue
		}
		fmt.Println(formatDeclaration(name, decl.Get(name), decl.Priority(name)))
	}
	return nil
}

func runMedia(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("media")

	if cmd.Args().Len() == 0 {
		return errors.New("no media queries have been specified")
	}

	vw, vh, err := viewportFromFlags(cmd, env)
	if err != nil {
		return err
	}
	features := env.Screen.Features(vw, vh)
	for _, kv := range cmd.StringSlice("feature") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("malformed feature override %q, expected NAME=VALUE", kv)
		}
		features[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	log.Debug("Screen features", zap.Strings("features", featureSummary(features)))

	for _, arg := range cmd.Args().Slice() {
		list := mediaquery.Parse(arg)
		if len(list) == 0 {
			log.Warn("Nothing to evaluate", zap.String("query", arg))
			continue
		}
		verdict := "no match"
		if ok, _ := mediaquery.Matches(list, features, mediaquery.PixelCompare); ok {
			verdict = "match"
		}
		fmt.Printf("%s: %s\n", arg, verdict)
	}
	return nil
}

func runRegistry(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("registry")

	if cmd.Args().Len() == 0 {
		// registered custom properties follow the builtins
		var custom []string
		for _, p := range env.Cfg.Engine.Properties {
			if env.Reg.IsRegistered(p.Name) {
				custom = append(custom, p.Name)
			}
		}
		sort.Sort(natural.StringSlice(custom))
		for _, name := range append(env.Reg.Names(), custom...) {
			fmt.Println(name)
		}
		return nil
	}

	shown := 0
	for _, name := range cmd.Args().Slice() {
		desc, ok := env.Reg.Lookup(name)
		if !ok {
			log.Warn("Unknown property", zap.String("property", name))
			continue
		}
		if shown > 0 {
			fmt.Println()
		}
		shown++
		fmt.Printf("%s:\n", desc.Name())
		fmt.Printf("    syntax:   %s\n", desc.Syntax())
		fmt.Printf("    inherits: %t\n", desc.Inherits())
		if initial, ok := desc.Initial(); ok {
			fmt.Printf("    initial:  %s\n", initial)
		}
		if style.IsShorthand(desc.Name()) {
			fmt.Printf("    expands:  %s\n", strings.Join(style.Longhands(desc.Name()), ", "))
		}
		if ids := desc.Identifiers(); len(ids) > 0 {
			fmt.Printf("    keywords: %s\n", strings.Join(ids, " | "))
		}
	}
	return nil
}

func runSheet(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("sheet")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no stylesheet has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		err  error
	)
	if src == "-" {
		src = "STDIN"
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("unable to read stylesheet '%s': %w", src, err)
	}
	if data, err = css.DecodeBytes(data); err != nil {
		return fmt.Errorf("unable to decode stylesheet '%s': %w", src, err)
	}

	sheet := stylesheet.NewParser(env.Log).Parse(data, src)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("source", src), zap.String("problem", w))
	}

	if cmd.Bool("effective") {
		vw, vh, err := viewportFromFlags(cmd, env)
		if err != nil {
			return err
		}
		rules := sheet.EffectiveRules(env.Screen.Features(vw, vh), mediaquery.PixelCompare)
		effective := &stylesheet.Stylesheet{Warnings: sheet.Warnings}
		for i := range rules {
			effective.Items = append(effective.Items, stylesheet.Item{Rule: &rules[i]})
		}
		sheet = effective
	}

	if _, err := sheet.WriteTo(os.Stdout); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

// staticContext is a synthetic element for the resolve command: a fixed
// font size, a parent chain and a viewport, nothing else.
type staticContext struct {
	font   float64
	vw, vh float64
	parent *staticContext
}

func (c *staticContext) Parent() resolve.Context {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

func (c *staticContext) IsRoot() bool                      { return c.parent == nil }
func (c *staticContext) ComputedFontSize() float64         { return c.font }
func (c *staticContext) FontMetric(string) (float64, bool) { return 0, false }
func (c *staticContext) ViewportSize() (float64, float64)  { return c.vw, c.vh }

// newStaticContext builds a three level chain. Font-relative units read
// the parent's computed font size, so fs sits one level above the
// returned element while rem still reaches rootFS at the top.
func newStaticContext(fs, rootFS, vw, vh float64) *staticContext {
	root := &staticContext{font: rootFS, vw: vw, vh: vh}
	parent := &staticContext{font: fs, vw: vw, vh: vh, parent: root}
	return &staticContext{font: fs, vw: vw, vh: vh, parent: parent}
}

// declarationFromArgs folds command line arguments into a declaration
// block, warning about anything the grammar rejected.
func declarationFromArgs(env *state.LocalEnv, log *zap.Logger, args []string) *style.Declaration {
	decl := style.NewDeclaration(env.Reg)
	for _, d := range css.SplitDeclarations(strings.Join(args, "; ")) {
		priority := ""
		if d.Important {
			priority = "important"
		}
		decl.SetPriority(d.Name, d.Value, priority)
		if decl.Get(d.Name) == "" {
			log.Warn("Declaration was dropped", zap.String("property", d.Name), zap.String("value", d.Value))
		}
	}
	return decl
}

func formatDeclaration(name, value, priority string) string {
	line := name + ": " + value
	if priority != "" {
		line += " !" + priority
	}
	return line
}

func allConsumed(names []string, consumed map[string]bool) bool {
	for _, name := range names {
		if !consumed[name] {
			return false
		}
	}
	return true
}

// typeName reports the concrete value type without package clutter.
func typeName(v typedom.StyleValue) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*typedom.")
}

// parseViewport reads a WxH pixel pair, such as "1280x720".
func parseViewport(s string) (w, h float64, err error) {
	left, right, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("malformed viewport %q, expected WxH", s)
	}
	if w, err = strconv.ParseFloat(strings.TrimSpace(left), 64); err != nil {
		return 0, 0, fmt.Errorf("malformed viewport width %q", left)
	}
	if h, err = strconv.ParseFloat(strings.TrimSpace(right), 64); err != nil {
		return 0, 0, fmt.Errorf("malformed viewport height %q", right)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("viewport must be positive, got %q", s)
	}
	return w, h, nil
}

func viewportFromFlags(cmd *cli.Command, env *state.LocalEnv) (w, h float64, err error) {
	if s := cmd.String("viewport"); s != "" {
		return parseViewport(s)
	}
	return float64(env.Screen.Width), float64(env.Screen.Height), nil
}

func parseDirection(s string) (resolve.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return resolve.DirectionHorizontal, nil
	case "vertical":
		return resolve.DirectionVertical, nil
	case "unspecified":
		return resolve.DirectionUnspecified, nil
	case "font":
		return resolve.DirectionFontRelative, nil
	}
	return 0, fmt.Errorf("unknown percentage base %q", s)
}

// featureSummary flattens a feature snapshot for logging, keys in
// natural order.
func featureSummary(features map[string]string) []string {
	keys := make([]string, 0, len(features))
	for k := range features {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+": "+features[k])
	}
	return out
}
