// Package main is the entry point for the aura CLI.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aura-ai/aura/internal/cron"
	"github.com/aura-ai/aura/internal/gateway"
	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aura",
		Short:         "A personal AI assistant with long-term memory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd(), chatCmd(), serveCmd(), rememberCmd(), recallCmd())
	return root
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return resolveConfigPath()
}

// resolveConfigPath searches standard locations for a config file.
// Search order: $XDG_CONFIG_HOME/aura/aura.yaml → ./aura.yaml
func resolveConfigPath() string {
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidate := filepath.Join(xdg, "aura", "aura.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "aura", "aura.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "aura.yaml"
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("aura %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := buildApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("你好，我是 Aura。输入 exit 或 退出 结束对话。")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("你: ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "exit" || input == "quit" || input == "退出" {
					fmt.Println("再见！")
					return nil
				}

				response := app.orchestrator.ProcessQuery(ctx, input)
				fmt.Printf("Aura: %s\n\n", response)
			}
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := buildApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer app.close()

			srv := gateway.New(
				app.config.Gateway,
				app.orchestrator,
				app.store,
				version,
				app.provider.ModelName(),
				app.logger,
			)
			if err := srv.Start(); err != nil {
				return err
			}

			var scheduler *cron.Scheduler
			if app.config.Snapshots.Enabled {
				scheduler = cron.NewScheduler(app.logger)
				job := &cron.MemorySnapshotJob{
					StorePath:    app.config.Memory.Path,
					Dir:          app.config.Snapshots.Dir,
					Keep:         app.config.Snapshots.Keep,
					Logger:       app.logger,
					ScheduleExpr: app.config.Snapshots.Schedule,
				}
				if err := scheduler.RegisterJob(job); err != nil {
					return err
				}
				if err := scheduler.Start(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx := context.Background()
			if scheduler != nil {
				if err := scheduler.Stop(shutdownCtx); err != nil {
					app.logger.Error("stopping scheduler", "error", err)
				}
			}
			return srv.Stop(shutdownCtx)
		},
	}
}

func rememberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remember <category/key/value>",
		Short: "Store a fact in long-term memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer app.close()

			fmt.Println(app.orchestrator.Remember(args[0]))
			return nil
		},
	}
}

func recallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recall <category/key>",
		Short: "Look up a fact in long-term memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(configPath(cmd))
			if err != nil {
				return err
			}
			defer app.close()

			fmt.Println(app.orchestrator.Recall(args[0]))
			return nil
		},
	}
}
