package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	spec         search.FilterSpec
	typeFilter   typeFlag
	sortKey      sortFlag
	createdFrom  string
	createdTo    string
	modifiedFrom string
	modifiedTo   string
	yes          bool
	refresh      bool
	save         string
	fromSaved    string
	noColor      bool
	showCommand  bool
}

func newSearchCommand(a *app) *cobra.Command {
	return searchCommand(a, &searchOptions{})
}

func searchCommand(a *app, opts *searchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [path]",
		Short: "Search a directory tree",
		Long: `Search a directory tree. Without a path the configured default root is
searched.

--name takes an exact name or a glob pattern:
  *      Match any characters (e.g., "*.go")
  ?      Match single character (e.g., "file?.txt")
  [...]  Match character class (e.g., "file[0-9].txt")

An exact name cannot be combined with --contains, --extension or --group.

Examples:
  filefind search ~/Documents -e pdf --size-min 1 --size-max 50
  filefind search -n "*.go" --content "TODO" --sort modified
  filefind search --group images --group movies --type files --yes
  filefind search ~/src -c test --save tests
  filefind search --from-saved tests -e go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.spec.Name, "name", "n", "", "exact name or glob pattern, case-insensitive")
	flags.StringVarP(&opts.spec.NameContains, "contains", "c", "", "name contains, case-insensitive")
	flags.StringVarP(&opts.spec.Extension, "extension", "e", "", "file extension")
	flags.Float64("size-min", 0, "minimum size in MB, used together with --size-max")
	flags.Float64("size-max", 0, "maximum size in MB, used together with --size-min")
	flags.StringVar(&opts.createdFrom, "created-after", "", "created at or after date")
	flags.StringVar(&opts.createdTo, "created-before", "", "created at or before date")
	flags.StringVar(&opts.modifiedFrom, "modified-after", "", "modified at or after date")
	flags.StringVar(&opts.modifiedTo, "modified-before", "", "modified at or before date")
	flags.StringVar(&opts.spec.Content, "content", "", "text the file contains, case-sensitive")
	flags.VarP(&opts.typeFilter, "type", "t", "files, folders or both")
	flags.StringSliceVarP(&opts.spec.FileGroups, "group", "g", nil, "file group to include (can be specified multiple times), \"other\" for the rest")
	flags.BoolVar(&opts.spec.IncludeSystemFiles, "system", false, "include system files and folders")
	flags.VarP(&opts.sortKey, "sort", "s", "sort by none, name, size, modified, created or path")
	flags.BoolVarP(&opts.spec.Reverse, "reverse", "r", false, "reverse the sort order")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")
	flags.BoolVar(&opts.refresh, "refresh", false, "delete the cached enumeration first")
	flags.StringVar(&opts.save, "save", "", "save the result under a name")
	flags.StringVar(&opts.fromSaved, "from-saved", "", "search the result of a saved search instead of a directory")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.showCommand, "show-command", false, "print the matching find(1) command")

	cmd.MarkFlagsMutuallyExclusive("from-saved", "refresh")

	return cmd
}

// buildSpec turns the parsed flags and arguments into a FilterSpec.
func (o *searchOptions) buildSpec(cmd *cobra.Command, defaultRoot string, args []string) (search.FilterSpec, error) {
	spec := o.spec.Clone()
	spec.Type = search.TypeFilter(o.typeFilter)
	spec.SortBy = search.SortKey(o.sortKey)
	spec.Root = defaultRoot
	if len(args) == 1 {
		spec.RawRoot = args[0]
	}

	var err error
	if spec.SizeMinMB, err = changedFloat(cmd.Flags(), "size-min"); err != nil {
		return spec, err
	}
	if spec.SizeMaxMB, err = changedFloat(cmd.Flags(), "size-max"); err != nil {
		return spec, err
	}
	if spec.Created, err = dateRange(o.createdFrom, o.createdTo); err != nil {
		return spec, err
	}
	if spec.Modified, err = dateRange(o.modifiedFrom, o.modifiedTo); err != nil {
		return spec, err
	}

	return spec, nil
}

func runSearch(cmd *cobra.Command, a *app, opts *searchOptions, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.noColor {
		color.NoColor = true
	}

	spec, err := opts.buildSpec(cmd, a.cfg.GetDefaultRoot(), args)
	if err != nil {
		return err
	}

	service, err := a.searchService(ctx)
	if err != nil {
		return err
	}

	var job *search.Job
	if opts.fromSaved != "" {
		job, err = service.Reload(opts.fromSaved, spec)
	} else {
		if opts.refresh {
			root := spec.RawRoot
			if root == "" {
				root = spec.Root
			}
			if err := service.DeleteCache(root); err != nil {
				return fmt.Errorf("failed to delete cache of %s: %w", root, err)
			}
		}

		var confirm search.ConfirmFunc
		if !opts.yes {
			confirm = promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
		}
		job, err = service.Submit(spec, confirm)
	}
	if err != nil {
		return err
	}
	if job == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "cancelled searching")
		return nil
	}

	// The job context derives from ctx, so an interrupt cancels the worker.
	result, err := job.Wait(context.Background())
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "search cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	if opts.showCommand {
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), search.TerminalCommand(result.Root, job.Spec))
	}

	if opts.save != "" {
		if err := service.SaveSearch(opts.save, job.Spec, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved search as %q\n", opts.save)
	}

	return nil
}

func printResult(out io.Writer, result *search.Result) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	for _, path := range result.Paths {
		fmt.Fprintln(out, path)
	}

	source := "walked"
	if result.CacheHit {
		source = "cached"
	}
	cyan.Fprintf(out, "\n%d results in %s (%s)\n", len(result.Paths), result.Root, source)
	yellow.Fprintf(out, "total %s, scan %s, filter %s, sort %s\n",
		formatDuration(result.Timings.Total),
		formatDuration(result.Timings.Scan),
		formatDuration(result.Timings.Filter),
		formatDuration(result.Timings.Sort))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
