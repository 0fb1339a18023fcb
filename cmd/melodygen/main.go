// Package main is the entry point for the melodygen CLI
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/james-see/melodygen/pkg/api"
	"github.com/james-see/melodygen/pkg/config"
	"github.com/james-see/melodygen/pkg/generator"
	"github.com/james-see/melodygen/pkg/midigen"
	"github.com/james-see/melodygen/pkg/theory"
	"github.com/james-see/melodygen/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg        *config.Config
	logger     *slog.Logger
	outputDir  string
	verbose    bool
	jsonOutput bool
	serverPort int

	melodyFlags   genFlags
	chordFlags    genFlags
	arpeggioFlags genFlags
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39FF14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#39FF14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "melodygen",
	Short: "Generate melodies and chord progressions as MIDI files",
	Long: `melodygen generates melodies and chord progressions from music theory
tables and writes them as Standard MIDI Files.

Examples:
  melodygen melody --root A --mode minor --notes 16 --swing
  melodygen chords --progression I-IV-V-I --bpm 90 -o song.mid
  melodygen chords --preset presets/jazz.yaml --strum down_slow
  melodygen chords --progression random --inversion 4 --save-preset random.yaml
  melodygen arpeggio --root D --mode dorian --pattern down
  melodygen inspect song.mid
  melodygen tui
  melodygen serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var melodyCmd = &cobra.Command{
	Use:   "melody",
	Short: "Generate a melody",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generator.KindMelody, &melodyFlags)
	},
}

var chordsCmd = &cobra.Command{
	Use:     "chords",
	Aliases: []string{"chord"},
	Short:   "Generate a chord progression",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generator.KindChords, &chordFlags)
	},
}

var arpeggioCmd = &cobra.Command{
	Use:     "arpeggio",
	Aliases: []string{"arp"},
	Short:   "Generate an arpeggio",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generator.KindArpeggio, &arpeggioFlags)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Decode a MIDI file and list its notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List scales, progressions, rhythms and other accepted values",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for generated files (default $MELODYGEN_OUTPUT_DIR or .)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	melodyFlags.register(melodyCmd.Flags(), generator.KindMelody)
	chordFlags.register(chordsCmd.Flags(), generator.KindChords)
	arpeggioFlags.register(arpeggioCmd.Flags(), generator.KindArpeggio)

	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	optionsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the options as JSON")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default $PORT or 8080)")

	rootCmd.AddCommand(melodyCmd)
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(arpeggioCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg = config.Load()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func runGenerate(cmd *cobra.Command, kind generator.Kind, flags *genFlags) error {
	var params generator.Params
	if flags.preset != "" {
		p, err := config.LoadPreset(flags.preset)
		if err != nil {
			return err
		}
		params = p
		logger.Debug("loaded preset", "path", flags.preset)
	}
	flags.apply(cmd.Flags(), &params, flags.preset != "")
	params.Kind = kind
	if flags.savePreset != "" {
		if err := config.SavePreset(flags.savePreset, params); err != nil {
			return err
		}
		fmt.Println(dimStyle.Render(fmt.Sprintf("  saved preset %s", flags.savePreset)))
	}

	res, err := midigen.Generate(params)
	if err != nil {
		return fmt.Errorf("generate %s: %w", kind, err)
	}
	logger.Debug("generated", "kind", kind, "notes", res.Notes, "bytes", len(res.Data), "seed", res.Seed)

	path := flags.output
	if path == "" {
		path, err = midigen.Save(cfg.OutputDir, res)
		if err != nil {
			return err
		}
	} else if err := os.WriteFile(path, res.Data, 0644); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Wrote %s", path)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("  %d notes, seed %d", res.Notes, res.Seed)))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]
	if !midigen.IsSMFName(input) {
		logger.Warn("file does not have a MIDI extension", "path", input)
	}
	sum, err := midigen.InspectFile(input)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(sum)
	}

	fmt.Println(headingStyle.Render(input))
	fmt.Printf("Format:     %d (%d track)\n", sum.Format, sum.Tracks)
	fmt.Printf("Resolution: %d ticks/quarter\n", sum.Resolution)
	fmt.Printf("Tempo:      %.2f bpm (%d µs/quarter)\n", sum.BPM, sum.Tempo)
	fmt.Printf("Length:     %d ticks\n", sum.EndTick)
	fmt.Printf("Notes:      %d\n", len(sum.Notes))
	if sum.Unmatched > 0 {
		fmt.Printf("Unmatched:  %d\n", sum.Unmatched)
	}
	for _, n := range sum.Notes {
		name := fmt.Sprintf("%s%d", theory.NoteName(int(n.Pitch)%12), int(n.Pitch)/12-1)
		fmt.Printf("  %7d  ch%-2d %-4s vel %3d  len %d\n", n.Start, n.Channel, name, n.Velocity, n.Duration)
	}
	return nil
}

func runOptions(cmd *cobra.Command, args []string) error {
	opts := midigen.ListOptions()
	if jsonOutput {
		return printJSON(opts)
	}
	sections := []struct {
		title  string
		values []string
	}{
		{"Scales", opts.Scales},
		{"Notes", opts.Notes},
		{"Rhythm patterns", opts.RhythmPatterns},
		{"Swing amounts", opts.SwingAmounts},
		{"Strum patterns", opts.StrumPatterns},
		{"Chord extensions", opts.Extensions},
		{"Timing modes", opts.TimingModes},
		{"Arpeggio patterns", opts.ArpeggioPatterns},
		{"Durations", opts.Durations},
	}
	for _, s := range sections {
		fmt.Println(headingStyle.Render(s.title))
		fmt.Println("  " + strings.Join(s.values, ", "))
	}

	fmt.Println(headingStyle.Render("Progressions"))
	for _, name := range opts.Progressions {
		if numerals, ok := opts.Numerals[name]; ok {
			fmt.Printf("  %-14s %s\n", name, dimStyle.Render(numerals))
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(cfg.OutputDir)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverPort != 0 {
		cfg.Port = serverPort
	}
	fmt.Printf("Starting API server on port %d...\n", cfg.Port)
	return api.StartServer(cfg, logger)
}
