package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/drape-io/confmod/internal/command"
	"github.com/drape-io/confmod/internal/config"
	"github.com/drape-io/confmod/internal/module"
	"github.com/drape-io/confmod/internal/output"
	"github.com/drape-io/confmod/internal/prompt"
	"github.com/drape-io/confmod/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	outputFormat string
	rootDir      string
	assumeYes    bool
	verbose      bool
	version      = "dev" // Will be set by build
)

var (
	renameRegex  bool
	renameDryRun bool

	enforceRemove     bool
	enforceRemoveUUID bool
	enforceDryRun     bool

	moveSource   string
	moveEnforced bool
	moveOptional bool
	moveDryRun   bool

	writeOptional bool
	writeEnforced bool
)

var rootCmd = &cobra.Command{
	Use:   "confmod",
	Short: "Manage configuration objects and module config packages",
	Long: `confmod renames configuration objects, enforces module dependencies and
exports configuration into module packages.

Examples:
  confmod list 'node.type.*'                    # List matching configuration
  confmod rename porject project                # Rename and rewrite contents
  confmod enforce-module-dependency node        # Enforce node on node's config
  confmod write-module-config node --optional   # Export to config/optional
  confmod move-module-config node --dry-run     # Preview moves from sync dir`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
}

var listCmd = &cobra.Command{
	Use:   "list [patterns...]",
	Short: "List configuration names, optionally filtered by glob patterns",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *command.Service) (*command.Report, error) {
			return s.List(args)
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <from> <to>",
	Short: "Rename configuration objects and rewrite their keys and values",
	Long: `rename replaces <from> with <to> in configuration names, in every key and
in every string value. With --regex, <from> is a regular expression and <to>
may reference groups as $1, ${name} or \1.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *command.Service) (*command.Report, error) {
			return s.Rename(args[0], args[1], renameRegex, renameDryRun)
		})
	},
}

var enforceCmd = &cobra.Command{
	Use:   "enforce-module-dependency <module[@constraint]> [configNames...]",
	Short: "Add or remove an enforced module dependency",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *command.Service) (*command.Report, error) {
			return s.EnforceModuleDependency(args[0], args[1:], command.EnforceOptions{
				Remove:     enforceRemove,
				RemoveUUID: enforceRemoveUUID,
				DryRun:     enforceDryRun,
			})
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write-module-config <module[@constraint]> [configNames...]",
	Short: "Export configuration objects into a module's config directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *command.Service) (*command.Report, error) {
			return s.WriteModuleConfig(args[0], args[1:], command.WriteOptions{
				Optional: writeOptional,
				Enforced: writeEnforced,
			})
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move-module-config <module[@constraint]> [configNames...]",
	Short: "Move exported configuration files from the sync directory into a module",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *command.Service) (*command.Report, error) {
			return s.MoveModuleConfig(args[0], args[1:], command.MoveOptions{
				Source:   moveSource,
				Enforced: moveEnforced,
				Optional: moveOptional,
				DryRun:   moveDryRun,
			})
		})
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a sample .confmod.toml configuration file",
	RunE:  runInit,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: .confmod.toml)")
	flags.StringVar(&outputFormat, "output", "pretty", "output format (pretty|quiet|json)")
	flags.StringVar(&rootDir, "root", ".", "site root directory")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	renameCmd.Flags().BoolVar(&renameRegex, "regex", false, "treat <from> as a regular expression")
	renameCmd.Flags().BoolVar(&renameDryRun, "dry-run", false, "show what would change")

	enforceCmd.Flags().BoolVar(&enforceRemove, "remove", false, "remove the enforced dependency")
	enforceCmd.Flags().BoolVar(&enforceRemoveUUID, "remove-uuid", false, "drop the uuid of updated objects")
	enforceCmd.Flags().BoolVar(&enforceDryRun, "dry-run", false, "show what would change")

	writeCmd.Flags().BoolVar(&writeOptional, "optional", false, "write to config/optional")
	writeCmd.Flags().BoolVar(&writeEnforced, "enforced", false, "select objects that enforce the module")

	moveCmd.Flags().StringVar(&moveSource, "source", "", "directory to move files from (default: sync_dir)")
	moveCmd.Flags().BoolVar(&moveEnforced, "enforced", false, "select objects that enforce the module")
	moveCmd.Flags().BoolVar(&moveOptional, "optional", false, "move to config/optional")
	moveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "show what would move")

	rootCmd.AddCommand(listCmd, renameCmd, enforceCmd, writeCmd, moveCmd, initCmd)
	rootCmd.Version = version
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "confmod"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// run builds the service from the loaded configuration, runs op and prints
// its report.
func run(op func(s *command.Service) (*command.Report, error)) error {
	logger := newLogger()

	loadResult, err := config.LoadAndMerge(configFile, rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, warning := range loadResult.Warnings {
		fmt.Fprintln(os.Stderr, warning)
	}
	if len(loadResult.Warnings) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	st, closeStore, err := store.Open(loadResult.Settings, rootDir, afero.NewOsFs())
	if err != nil {
		return fmt.Errorf("failed to open configuration store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()
	logger.Debug("store opened", "type", loadResult.Settings.Store, "modules", len(loadResult.Modules))

	var confirmer prompt.Confirmer = prompt.Interactive{}
	if assumeYes {
		confirmer = &prompt.Auto{Answer: true}
	}

	service := &command.Service{
		Store:   st,
		Modules: module.NewRegistry(loadResult.Modules),
		FS:      afero.NewOsFs(),
		Log:     logger,
		Confirm: confirmer,
		SyncDir: loadResult.Settings.SyncDir,
	}

	report, err := op(service)
	if report != nil {
		output.Print(report, output.ParseFormat(outputFormat))
	}
	if err != nil {
		return err
	}
	if output.ShouldExitWithError(report) {
		return errors.New("one or more operations failed")
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultConfigFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	sample := `# confmod configuration file

[confmod]
# Where configuration objects live: "files" (one YAML file per object)
# or "sqlite" (a single database file).
store = "files"
store_path = "config/active"
# collection = ""

# Directory exported configuration is staged in before it is moved
# into module packages.
sync_dir = "config/sync"

# Directories scanned for <name>.info.yml files.
module_roots = ["modules", "core/modules", "profiles", "themes"]

# Modules can also be declared explicitly.
# [node]
# path = "core/modules/node"
# version = "10.2.0"
`

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
