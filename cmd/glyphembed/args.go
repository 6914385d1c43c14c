package main

import (
	"fmt"
	"os"

	"glyphembed/internal/config"
)

type options struct {
	cfg        config.Config
	configPath string
	audioPath  string
	scriptPath string
	title      string
	outputPath string
	inspect    bool
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs() (options, error) {
	args := os.Args[1:]

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return options{}, initConfigFile()
		}
	}

	var opts options

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--config requires a path argument")
			}
			opts.configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(opts.configPath)
	if err != nil {
		return options{}, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.configPath == "" {
		opts.configPath = config.FindConfigFile()
	}
	opts.cfg = cfg

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			opts.cfg.Verbose = true

		case "--inspect":
			opts.inspect = true

		case "--script", "-s":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--script requires a path argument")
			}
			i++
			opts.scriptPath = args[i]

		case "--title", "-t":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--title requires a value")
			}
			i++
			opts.title = args[i]

		case "--output", "-o":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--output requires a path argument")
			}
			i++
			opts.outputPath = args[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return options{}, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.audioPath = arg
		}
	}

	if opts.audioPath == "" {
		return options{}, fmt.Errorf("an audio file argument is required")
	}
	if !opts.inspect && opts.scriptPath == "" {
		return options{}, fmt.Errorf("--script is required (or use --inspect to read an already tagged file)")
	}

	return opts, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	cfg := config.DefaultConfig()

	if err := config.SaveConfigFile(cfg, path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	fmt.Println("Available options:")
	fmt.Println("  ffmpeg_path / ffprobe_path: explicit tool locations (default: PATH lookup)")
	fmt.Println("  default_title: TITLE tag used when no --title is given")
	fmt.Println("  album / composer / custom2: tag literals the companion firmware expects")
	fmt.Println("  output_dir: where tagged files are written (default: next to the input)")
	fmt.Println("  verbose: true/false (enable detailed logging)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("glyphembed - Embed glyph animation scripts into Ogg/Opus audio")
	fmt.Println()
	fmt.Println("Usage: glyphembed [options] <audio-file>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -s, --script <path>        Glyph script CSV to embed (required)")
	fmt.Println("  -t, --title <title>        TITLE tag for the output (default from config)")
	fmt.Println("  -o, --output <path>        Output file path (default: <input>_glyphed.ogg)")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("      --inspect              Decode and print the glyph script embedded in <audio-file>")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./glyphembed.yaml")
	fmt.Println("  ~/.config/glyphembed/config.yaml")
	fmt.Println("  ~/.glyphembed.yaml")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Embed a composition into a ringtone")
	fmt.Println("  glyphembed -s composition.csv -t \"My Tone\" ringtone.mp3")
	fmt.Println()
	fmt.Println("  # Read the composition back out of a tagged file")
	fmt.Println("  glyphembed --inspect ringtone_glyphed.ogg")
}
