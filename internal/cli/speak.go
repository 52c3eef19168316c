package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chorus-network/chorus/internal/config"
	"github.com/chorus-network/chorus/internal/infra/sqlite"
	"github.com/chorus-network/chorus/internal/pipeline"
	"github.com/chorus-network/chorus/internal/remote"
	"github.com/chorus-network/chorus/internal/task"
)

var speakCmd = &cobra.Command{
	Use:   "speak TEXTFILE WAVFILE",
	Short: "Synthesize a text file into a WAV file over the compute network",
	Long: `Split TEXTFILE into word-balanced chunks, submit them as one task to
the compute network, wait for the remote synthesis to finish, and
combine the per-chunk segments into WAVFILE.`,
	Args: cobra.ExactArgs(2),
	RunE: runSpeak,
}

var (
	subtasks       int
	datadir        string
	address        string
	port           int
	bid            float64
	taskTimeout    int
	subtaskTimeout int
	pollInterval   time.Duration
	keepWorkspace  bool
	jsPayload      string
	wasmPayload    string
	noHistory      bool
)

func init() {
	defaults := config.Default()

	speakCmd.Flags().IntVar(&subtasks, "subtasks", defaults.Task.Subtasks, "number of subtasks to split the text into")
	speakCmd.Flags().StringVar(&datadir, "datadir", "", "directory for per-run workspaces (default: OS temp dir)")
	speakCmd.Flags().StringVar(&address, "address", defaults.RPC.Address, "compute network RPC address")
	speakCmd.Flags().IntVar(&port, "port", defaults.RPC.Port, "compute network RPC port")
	speakCmd.Flags().Float64Var(&bid, "bid", defaults.Task.Bid, "task bid")
	speakCmd.Flags().IntVar(&taskTimeout, "timeout", defaults.Task.TimeoutMin, "whole-task timeout in minutes")
	speakCmd.Flags().IntVar(&subtaskTimeout, "subtask-timeout", defaults.Task.SubtaskTimeoutMin, "per-subtask timeout in minutes")
	speakCmd.Flags().DurationVar(&pollInterval, "poll-interval", defaults.RPC.PollInterval(), "pause between status polls")
	speakCmd.Flags().BoolVar(&keepWorkspace, "keep-workspace", false, "keep the run workspace instead of removing it")
	speakCmd.Flags().StringVar(&jsPayload, "js", "", "substitute JS payload file")
	speakCmd.Flags().StringVar(&wasmPayload, "wasm", "", "substitute wasm payload file")
	speakCmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording this run in the history")

	rootCmd.AddCommand(speakCmd)
}

func runSpeak(cmd *cobra.Command, args []string) error {
	textFile, wavFile := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applySpeakFlags(cmd, &cfg)

	payload := task.DefaultPayload()
	if jsPayload != "" || wasmPayload != "" {
		if jsPayload == "" || wasmPayload == "" {
			return fmt.Errorf("--js and --wasm must be given together")
		}
		payload, err = task.LoadPayload(jsPayload, wasmPayload)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var history *sqlite.DB
	if !noHistory {
		history, err = sqlite.Open(config.Home())
		if err != nil {
			slog.Warn("history unavailable", "err", err)
		} else {
			defer history.Close()
		}
	}

	var bar *progressBar
	opts := pipeline.Options{
		InputFile:      textFile,
		OutputFile:     wavFile,
		Subtasks:       cfg.Task.Subtasks,
		TaskName:       cfg.Task.Name,
		Bid:            cfg.Task.Bid,
		Timeout:        time.Duration(cfg.Task.TimeoutMin) * time.Minute,
		SubtaskTimeout: time.Duration(cfg.Task.SubtaskTimeoutMin) * time.Minute,
		Payload:        payload,
		WorkspaceRoot:  cfg.Workspace.Root,
		KeepWorkspace:  cfg.Workspace.Keep,
		Client:         remote.NewHTTPClient(cfg.RPC.Address, cfg.RPC.Port),
		Poller: remote.Poller{
			Interval:        cfg.RPC.PollInterval(),
			MaxPollFailures: cfg.RPC.MaxPollFailures,
		},
		OnStart: func(total int) {
			bar = newProgressBar(total)
		},
		OnAdvance: func(n int) {
			if bar != nil {
				bar.Advance(n)
			}
		},
		History: history,
	}

	if err := pipeline.Run(ctx, opts); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "done: %s\n", wavFile)
	}
	return nil
}

// applySpeakFlags overrides file configuration with flags the user set
// explicitly.
func applySpeakFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("subtasks") {
		cfg.Task.Subtasks = subtasks
	}
	if flags.Changed("address") {
		cfg.RPC.Address = address
	}
	if flags.Changed("port") {
		cfg.RPC.Port = port
	}
	if flags.Changed("bid") {
		cfg.Task.Bid = bid
	}
	if flags.Changed("timeout") {
		cfg.Task.TimeoutMin = taskTimeout
	}
	if flags.Changed("subtask-timeout") {
		cfg.Task.SubtaskTimeoutMin = subtaskTimeout
	}
	if flags.Changed("poll-interval") {
		cfg.RPC.PollIntervalMS = int(pollInterval.Milliseconds())
	}
	if flags.Changed("datadir") {
		cfg.Workspace.Root = datadir
	}
	if flags.Changed("keep-workspace") {
		cfg.Workspace.Keep = keepWorkspace
	}
}
