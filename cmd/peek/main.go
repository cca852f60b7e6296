// Command peek is a terminal debug view for Go programs. It drives a
// headless delve session and presents the variables, watch, call stack and
// breakpoints panels next to the source of the halted target.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lbayona/peek/internal/components/breakpoints"
	"github.com/lbayona/peek/internal/components/callstack"
	"github.com/lbayona/peek/internal/components/console"
	"github.com/lbayona/peek/internal/components/variables"
	"github.com/lbayona/peek/internal/components/watch"
	"github.com/lbayona/peek/internal/config"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/logging"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/panel"
	"github.com/lbayona/peek/internal/paths"
	"github.com/lbayona/peek/internal/view"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "peek [target]",
		Short:        "terminal debug view for Go programs",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().String(config.KeyTarget, ".", "package to debug")
	cmd.Flags().String(config.KeyLogFile, "", "write logs to this file")
	cmd.Flags().String(config.KeyLogLevel, "warn", "log level")
	cmd.Flags().String(config.KeyToolBarLocation, config.ToolBarDocked, "debug toolbar location (docked, floating, hidden)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Set(config.KeyTarget, args[0])
	}

	if cfg.Target() == "." {
		if root := paths.ProjectRoot(); root != "" {
			cfg.Set(config.KeyTarget, root)
		}
	}

	log, closeLog, err := logging.New(cfg.LogFile(), cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	session := debugger.New(log)
	defer func() { _ = session.Stop() }()

	registry := view.NewActionRegistry()
	registerToolbarActions(registry)

	debugView := view.NewDebugView(session, cfg, registry, view.NewSpinnerProgress())
	debugView.AddPanels([]*panel.Panel{
		panel.New(view.PanelVariables, "Variables", 1, 4, variables.New(session)),
		panel.New(view.PanelWatch, "Watch", 2, 3, watch.New(session)),
		panel.New(view.PanelCallStack, "Call Stack", 3, 4, callstack.New(session)),
		panel.New(view.PanelBreakpoints, "Breakpoints", 4, 3, breakpoints.New(session)),
	})

	consolePanel := panel.New(view.PanelConsole, "Debug Console", 5, 4, console.New(session, session.Output))

	m := newModel(session, cfg, log, debugView, consolePanel)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// registerToolbarActions contributes the session-flow actions shown while
// the toolbar is docked and a session is live.
func registerToolbarActions(registry *view.ActionRegistry) {
	live := []debugger.State{debugger.StateStopped, debugger.StateRunning}

	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.continue", "Continue", messages.ContinueRequested{}, debugger.StateStopped))
	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.next", "Next", messages.NextRequested{}, debugger.StateStopped))
	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.stepIn", "Step In", messages.StepInRequested{}, debugger.StateStopped))
	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.stepOut", "Step Out", messages.StepOutRequested{}, debugger.StateStopped))
	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.restart", "Restart", messages.RestartRequested{}, live...))
	registry.Register(view.MenuDebugToolbar,
		view.NewContributedAction("debug.toolbar.stop", "Stop", messages.StopRequested{}, append(live, debugger.StateInitializing)...))
}
