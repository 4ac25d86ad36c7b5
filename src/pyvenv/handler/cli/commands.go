package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
	"gopkg.in/yaml.v3"
)

const (
	_formatText = "text"
	_formatYAML = "yaml"
)

func (h *handler) execCommand(exitCode *int) *cobra.Command {
	var (
		dir    string
		venvAt string
		noVenv bool
	)
	cmd := &cobra.Command{
		Use:   "exec [flags] [--] COMMAND [ARGS...]",
		Short: "Run a command with the venv activated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, closeContext, err := h.openContext(ctx, dir)
			if err != nil {
				return err
			}
			defer closeContext()

			switch {
			case noVenv:
				err = h.venv.SetOverride(ctx, id, "")
			case cmd.Flags().Changed("venv"):
				err = h.venv.SetOverride(ctx, id, venvAt)
			}
			if err != nil {
				return err
			}

			return h.venv.Run(ctx, id, func(ctx context.Context) error {
				path, err := h.lookCommand(args[0])
				if err != nil {
					*exitCode = ExitNotFound
					return err
				}
				code, err := h.executor.Attach(ctx, executor.Command{
					Path:   path,
					Args:   args[1:],
					Env:    h.env.Environ(),
					Stdin:  cmd.InOrStdin(),
					Stdout: cmd.OutOrStdout(),
					Stderr: cmd.ErrOrStderr(),
				})
				if code < 0 {
					code = ExitFailure
				}
				*exitCode = code
				return err
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory to resolve the venv for (default: working directory)")
	cmd.Flags().StringVar(&venvAt, "venv", "", "use this venv instead of detecting one")
	cmd.Flags().BoolVar(&noVenv, "no-venv", false, "run without activating any venv")
	cmd.MarkFlagsMutuallyExclusive("venv", "no-venv")
	return cmd
}

// lookCommand finds name on the activated search path unless it already names a file.
func (h *handler) lookCommand(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}
	return h.fs.Which(h.env.SearchPath(), name)
}

type statusView struct {
	BaseDir   string `yaml:"baseDir"`
	State     string `yaml:"state"`
	Path      string `yaml:"path,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Override  bool   `yaml:"override"`
	Indicator string `yaml:"indicator,omitempty"`
}

func newStatusView(s entity.Status) statusView {
	return statusView{
		BaseDir:   s.BaseDir,
		State:     s.Venv.State.String(),
		Path:      s.Venv.Path,
		Type:      string(s.TypeLabel),
		Override:  s.Override,
		Indicator: s.Indicator(),
	}
}

func (h *handler) statusCommand() *cobra.Command {
	var dir, format string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Resolve and show the venv of a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != _formatText && format != _formatYAML {
				return fmt.Errorf("%w: unsupported format %q, want %s or %s", errors.InvalidArgumentError, format, _formatText, _formatYAML)
			}

			ctx := cmd.Context()
			id, closeContext, err := h.openContext(ctx, dir)
			if err != nil {
				return err
			}
			defer closeContext()

			// Every invocation starts from a fresh context, so this is always a search.
			status, err := h.venv.Refresh(ctx, id)
			if err != nil {
				return err
			}

			view := newStatusView(status)
			out := cmd.OutOrStdout()
			if format == _formatYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(view); err != nil {
					return fmt.Errorf("encoding status: %w", err)
				}
				return enc.Close()
			}

			fmt.Fprintf(out, "base:      %s\n", view.BaseDir)
			fmt.Fprintf(out, "state:     %s\n", view.State)
			if view.Path != "" {
				fmt.Fprintf(out, "venv:      %s\n", view.Path)
			}
			if view.Type != "" {
				fmt.Fprintf(out, "type:      %s\n", view.Type)
			}
			fmt.Fprintf(out, "override:  %t\n", view.Override)
			if view.Indicator != "" {
				fmt.Fprintf(out, "indicator: %s\n", view.Indicator)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory to resolve the venv for (default: working directory)")
	cmd.Flags().StringVarP(&format, "format", "o", _formatText, "output format: text or yaml")
	return cmd
}

func (h *handler) diffCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how activation changes the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, closeContext, err := h.openContext(ctx, dir)
			if err != nil {
				return err
			}
			defer closeContext()

			before := h.env.Snapshot().Environ()
			var after []string
			if err := h.venv.Run(ctx, id, func(ctx context.Context) error {
				after = h.env.Snapshot().Environ()
				return nil
			}); err != nil {
				return err
			}

			for _, line := range environDiff(before, after) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory to resolve the venv for (default: working directory)")
	return cmd
}

// environDiff returns the removed and added variables, prefixed with - and +.
func environDiff(before, after []string) []string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []string
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, prefix+line)
		}
	}
	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (h *handler) strategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List detection strategies in the order they are tried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, name := range h.resolver.Strategies() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
			}
			return nil
		},
	}
}

func (h *handler) watchCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the venv indicator and update it as the directory changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			id, closeContext, err := h.openContext(ctx, dir)
			if err != nil {
				return err
			}
			defer closeContext()

			return h.indicator.Watch(ctx, id, func(s entity.Status) {
				fmt.Fprintln(cmd.OutOrStdout(), s.Indicator())
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "directory to watch (default: working directory)")
	return cmd
}
