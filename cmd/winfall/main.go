package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winfall/internal/config"
	"github.com/1broseidon/winfall/internal/hotkeys"
	"github.com/1broseidon/winfall/internal/input"
	"github.com/1broseidon/winfall/internal/ipc"
	"github.com/1broseidon/winfall/internal/mcp"
	"github.com/1broseidon/winfall/internal/platform"
	"github.com/1broseidon/winfall/internal/sim"
	"github.com/1broseidon/winfall/internal/sound"
	"github.com/1broseidon/winfall/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winfall daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: winfall daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "pause":
		os.Exit(runSimpleIPC("pause", os.Args[2:], func(c *ipc.Client) error { return c.Pause() }))
	case "resume":
		os.Exit(runSimpleIPC("resume", os.Args[2:], func(c *ipc.Client) error { return c.Resume() }))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "toss":
		os.Exit(runToss(os.Args[2:]))
	case "reload":
		os.Exit(runSimpleIPC("reload", os.Args[2:], func(c *ipc.Client) error { return c.Reload() }))
	case "stop":
		os.Exit(runSimpleIPC("stop", os.Args[2:], func(c *ipc.Client) error { return c.Stop() }))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winfall <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the winfall daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pause               Freeze the simulation")
	fmt.Fprintln(w, "  resume              Resume the simulation")
	fmt.Fprintln(w, "  set                 Change physics parameters on the running daemon")
	fmt.Fprintln(w, "  windows             List simulated windows")
	fmt.Fprintln(w, "  toss                Toss windows into the air")
	fmt.Fprintln(w, "  reload              Reload daemon config from disk")
	fmt.Fprintln(w, "  stop                Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive tuning UI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winfall <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winfall status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("paused:         %v\n", status.Paused)
	fmt.Printf("window_count:   %d\n", status.BodyCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("tick_rate:      %d\n", status.TickRate)
	fmt.Printf("gravity:        %g\n", status.Gravity)
	fmt.Printf("drag:           %g\n", status.Drag)
	fmt.Printf("restitution:    %g\n", status.Restitution)
	return 0
}

func runSimpleIPC(name string, args []string, call func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: winfall %s\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	if err := call(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winfall set [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Change physics parameters on the running daemon.")
		fmt.Fprintln(os.Stderr, "Only the flags you pass are changed; changes are not persisted.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	gravity := fs.Float64("gravity", -1, "Downward acceleration in px/s²")
	drag := fs.Float64("drag", -1, "Horizontal velocity decay rate per second")
	floorRest := fs.Float64("floor-restitution", -1, "Fraction of speed kept after a floor bounce (0-1)")
	wallRest := fs.Float64("wall-restitution", -1, "Fraction of speed kept after a wall bounce (0-1)")
	throw := fs.Float64("throw-multiplier", -1, "Scale applied to release velocity when a drag ends")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "set takes no positional arguments")
		fs.Usage()
		return 2
	}

	var payload ipc.SetParamsPayload
	set := false
	if *gravity >= 0 {
		payload.Gravity = gravity
		set = true
	}
	if *drag >= 0 {
		payload.Drag = drag
		set = true
	}
	if *floorRest >= 0 {
		payload.FloorRestitution = floorRest
		set = true
	}
	if *wallRest >= 0 {
		payload.WallRestitution = wallRest
		set = true
	}
	if *throw >= 0 {
		payload.ThrowMultiplier = throw
		set = true
	}
	if !set {
		fmt.Fprintln(os.Stderr, "set requires at least one flag")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().SetParams(payload); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winfall windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List simulated windows with position, velocity, and state.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListBodies()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data.Bodies); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, b := range data.Bodies {
		fmt.Printf("0x%08x  %-8s  pos=(%d,%d)  size=%dx%d  vel=(%.0f,%.0f)  %s\n",
			b.ID, b.State, b.X, b.Y, b.Width, b.Height, b.VX, b.VY, b.Title)
	}
	return 0
}

func runToss(args []string) int {
	fs := flag.NewFlagSet("toss", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winfall toss [--id WINDOW_ID]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Toss windows upward with a random sideways kick.")
		fmt.Fprintln(os.Stderr, "Without --id, every simulated window is tossed.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	id := fs.Uint64("id", 0, "X11 window ID to toss (0 = all)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	n, err := ipc.NewClient().Toss(uint32(*id))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("tossed %d windows\n", n)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winfall config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  winfall config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winfall/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winfall/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winfall/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: winfall tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive tuning UI for the running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  e         Edit physics parameters")
		fmt.Fprintln(os.Stderr, "  p, Space  Pause/resume the simulation")
		fmt.Fprintln(os.Stderr, "  t         Toss all windows")
		fmt.Fprintln(os.Stderr, "  s         Save current parameters to config")
		fmt.Fprintln(os.Stderr, "  r         Refresh")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: winfall mcp serve")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Expose the winfall daemon as an MCP server on stdio.")
		return 2
	}

	switch args[0] {
	case "serve":
		server := mcp.NewServer()
		if err := server.Run(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp subcommand: %s\n", args[0])
		return 2
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (gravity: %g px/s², tick rate: %d Hz)", cfg.Gravity, cfg.TickRate)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.Logging.Level),
	}))

	var player *sound.Player
	if cfg.Sound.Enabled {
		player = sound.NewPlayer(cfg.Sound.Volume)
		if err := player.Initialize(); err != nil {
			log.Printf("Warning: sound disabled: %v", err)
			player = nil
		} else {
			defer player.Close()
		}
	}
	var impact sim.ImpactFunc
	if player != nil {
		impact = player.Impact
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := input.NewPoller(backend.QueryPointer, 0)
	engine := sim.New(backend, poller.Events(), cfg.EngineOptions(), logger, impact)

	hotkeyHandler := hotkeys.NewHandler(backend)
	if cfg.PauseHotkey != "" {
		if err := hotkeyHandler.RegisterFunc(cfg.PauseHotkey, func() {
			if engine.TogglePause() {
				log.Println("Simulation paused")
			} else {
				log.Println("Simulation resumed")
			}
		}); err != nil {
			log.Printf("Warning: Failed to register pause hotkey: %v", err)
		} else {
			log.Printf("Pause hotkey registered: %s", cfg.PauseHotkey)
		}
	}
	if cfg.TossHotkey != "" {
		if err := hotkeyHandler.RegisterFunc(cfg.TossHotkey, func() {
			n := engine.Toss(0)
			log.Printf("Tossed %d windows", n)
		}); err != nil {
			log.Printf("Warning: Failed to register toss hotkey: %v", err)
		} else {
			log.Printf("Toss hotkey registered: %s", cfg.TossHotkey)
		}
	}

	reloadFn := func() error {
		newCfg, err := config.Load()
		if err != nil {
			return err
		}
		engine.SetParams(newCfg.PhysicsParams())
		if player != nil {
			player.SetVolume(newCfg.Sound.Volume)
		}
		log.Println("Config reloaded")
		return nil
	}

	ipcServer, err := ipc.NewServer(engine, cancel, reloadFn)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				if err := reloadFn(); err != nil {
					log.Printf("Config reload failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down winfall daemon...")
				cancel()
			}
		}
	}()

	go poller.Run(ctx)
	go backend.EventLoop()

	log.Println("winfall daemon started; your windows are no longer safe")
	if err := engine.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Engine stopped: %v", err)
	}
}
