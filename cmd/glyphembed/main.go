package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"glyphembed/internal/config"
	"glyphembed/internal/ffmpeg"
	"glyphembed/internal/logger"
	"glyphembed/internal/pipeline"
	"glyphembed/internal/shutdown"
	"glyphembed/pkg/utils"
)

func main() {
	opts, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen()
	defer sh.Shutdown()

	log := logger.New(opts.cfg.Verbose)
	defer log.Close()

	if !opts.cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("glyphembed_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if opts.cfg.Verbose && opts.configPath != "" {
		log.Debug("Loaded configuration from: %s", opts.configPath)
	}

	if opts.inspect {
		if err := runInspect(opts, log); err != nil {
			log.Error("%v", err)
			os.Exit(1)
		}
		return
	}

	if err := opts.cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	if err := run(sh, opts, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(sh *shutdown.Handler, opts options, log *logger.Logger) error {
	tools, err := ffmpeg.Find(opts.cfg)
	if err != nil {
		return err
	}
	log.Debug("Using ffmpeg: %s", tools.FFmpeg)
	if tools.FFprobe == "" {
		log.Warn("ffprobe not found; input will always be transcoded")
	}

	script, err := os.ReadFile(opts.scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read glyph script %s: %w", opts.scriptPath, err)
	}

	tmpDir, err := utils.CreateTempDir()
	if err != nil {
		return fmt.Errorf("error creating temporary folder: %w", err)
	}
	log.Debug("Temporary folder: %s", tmpDir)

	sh.AddCleanup(func() {
		log.Debug("Cleaning up...")
		if err := utils.Cleanup(tmpDir); err != nil {
			log.Warn("Error during cleanup: %v", err)
		}
	})

	req := pipeline.Request{
		AudioPath: opts.audioPath,
		Ext:       filepath.Ext(opts.audioPath),
		Script:    string(script),
		Title:     opts.title,
	}

	outPath, err := pipeline.Run(sh.Context(), opts.cfg, log, tools, tmpDir, req)
	if err != nil {
		return err
	}

	dest := opts.outputPath
	if dest == "" {
		base := strings.TrimSuffix(filepath.Base(opts.audioPath), filepath.Ext(opts.audioPath))
		dir := opts.cfg.OutputDir
		if dir == "" {
			dir = filepath.Dir(opts.audioPath)
		}
		dest = filepath.Join(dir, base+"_glyphed.ogg")
	}

	if err := utils.MoveFile(outPath, dest); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	log.Info("=== Wrote %s ===", dest)
	return nil
}

func runInspect(opts options, log *logger.Logger) error {
	info, err := pipeline.Inspect(opts.audioPath)
	if err != nil {
		return err
	}

	log.Info("Title:    %s", info.Title)
	log.Info("Album:    %s", info.Album)
	log.Info("Composer: %s", info.Composer)
	log.Info("Columns:  %s", info.Custom2)
	log.Info("Glyph script:")
	fmt.Print(info.Script)
	return nil
}
