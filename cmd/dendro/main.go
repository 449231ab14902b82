package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/dendro/internal/cluster"
	"github.com/TobiSchelling/dendro/internal/config"
	"github.com/TobiSchelling/dendro/internal/database"
	"github.com/TobiSchelling/dendro/internal/export"
	"github.com/TobiSchelling/dendro/internal/linkage"
	"github.com/TobiSchelling/dendro/internal/matrix"
	"github.com/TobiSchelling/dendro/internal/report"
	"github.com/TobiSchelling/dendro/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "dendro",
	Short:   "Hierarchical clustering of distance matrices",
	Long:    "Dendro merges a pairwise distance matrix into a dendrogram, cuts it into groups, and keeps the runs browsable.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dendro", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/dendro/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure the linkage criterion, cut and outputs.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("  Stored runs: %d\n", stats.Runs)
		fmt.Printf("  Stored groups: %d\n", stats.Groups)
		return nil
	},
}

// --- run command ---

var (
	runLabel     string
	runCriterion string
	runThreshold float64
	runMaxGroups int
	runJSON      string
	runIndex     string
	runNewick    string
	runNoStore   bool
)

var runCmd = &cobra.Command{
	Use:   "run [matrix-file]",
	Short: "Cluster a distance matrix into a dendrogram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		m, err := matrix.ReadFile(path)
		if err != nil {
			return err
		}

		criterionName := cfg.Criterion
		if cmd.Flags().Changed("criterion") {
			criterionName = runCriterion
		}
		criterion, err := linkage.Parse(criterionName)
		if err != nil {
			return err
		}

		log.Printf("Clustering %d items with %s linkage...", m.Len(), criterion)
		tree, err := cluster.Merge(m.Clusters(), criterion)
		if err != nil {
			return err
		}

		steps := export.Steps(tree)

		threshold := cfg.Cut.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold = runThreshold
		}
		maxGroups := cfg.Cut.MaxGroups
		if cmd.Flags().Changed("max-groups") {
			maxGroups = runMaxGroups
		}
		if threshold > 0 {
			cluster.CutAtThreshold(tree, threshold)
		}
		if maxGroups > 0 {
			cluster.CutToGroups(tree, maxGroups)
		}

		if err := writeExports(cmd, tree); err != nil {
			return err
		}

		bottom := tree.Bottom()
		fmt.Printf("Clustered %d items into %d groups:\n", m.Len(), len(bottom))
		for i, node := range bottom {
			c := node.Value()
			fmt.Printf("  group %d (size %d, merged at %g): %v\n",
				i+1, c.Size(), c.MergeDistance(), c.Members())
		}

		if runNoStore {
			return nil
		}

		label := runLabel
		if label == "" {
			label = filepath.Base(path)
		}
		dbSteps := make([]database.RunStep, len(steps))
		for i, s := range steps {
			dbSteps[i] = database.RunStep{Step: i, Distance: s.Distance, Size: s.Size, Members: s.Members}
		}
		groups := make([]database.RunGroup, len(bottom))
		for i, node := range bottom {
			c := node.Value()
			groups[i] = database.RunGroup{
				Index:         i,
				Size:          c.Size(),
				MergeDistance: c.MergeDistance(),
				Members:       c.Members(),
			}
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.InsertRun(label, criterion.String(), path, m.Len(), dbSteps, groups)
		if err != nil {
			return fmt.Errorf("storing run: %w", err)
		}
		fmt.Printf("\nStored as run %d. Run 'dendro serve' to browse it.\n", id)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runLabel, "label", "", "Label for the stored run (defaults to the matrix file name)")
	runCmd.Flags().StringVar(&runCriterion, "criterion", "", "Linkage criterion (overrides config)")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0, "Cut the dendrogram at this merge distance")
	runCmd.Flags().IntVar(&runMaxGroups, "max-groups", 0, "Cut the dendrogram to at most this many groups")
	runCmd.Flags().StringVar(&runJSON, "json", "", "Write the dendrogram as JSON to this file")
	runCmd.Flags().StringVar(&runIndex, "index", "", "Write the bottom groups as an index file")
	runCmd.Flags().StringVar(&runNewick, "newick", "", "Write the dendrogram in Newick format")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "Do not record the run in the database")
}

// writeExports writes the configured export files, flags taking
// precedence over config.
func writeExports(cmd *cobra.Command, tree *cluster.Tree) error {
	jsonPath := cfg.Output.JSON
	if cmd.Flags().Changed("json") {
		jsonPath = runJSON
	}
	indexPath := cfg.Output.Index
	if cmd.Flags().Changed("index") {
		indexPath = runIndex
	}
	newickPath := cfg.Output.Newick
	if cmd.Flags().Changed("newick") {
		newickPath = runNewick
	}

	if jsonPath != "" {
		if err := writeFile(jsonPath, func(f *os.File) error {
			return export.WriteJSON(f, tree)
		}); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		log.Printf("Wrote dendrogram JSON to %s", jsonPath)
	}
	if indexPath != "" {
		if err := writeFile(indexPath, func(f *os.File) error {
			return export.WriteIndex(f, tree)
		}); err != nil {
			return fmt.Errorf("writing index: %w", err)
		}
		log.Printf("Wrote index file to %s", indexPath)
	}
	if newickPath != "" {
		if err := os.WriteFile(newickPath, []byte(export.Newick(tree)+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing newick: %w", err)
		}
		log.Printf("Wrote Newick tree to %s", newickPath)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- runs / show commands ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored clustering runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.GetRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored. Cluster a matrix with: dendro run <matrix-file>")
			return nil
		}

		for _, r := range runs {
			created := ""
			if r.CreatedAt != nil {
				created = *r.CreatedAt
			}
			fmt.Printf("  [%d] %s: %s, %d items (%s)\n", r.ID, r.Label, r.Criterion, r.Items, created)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the report of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid run ID: %s", args[0])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetRun(id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %d not found", id)
		}
		groups, err := db.GetGroups(id)
		if err != nil {
			return err
		}
		steps, err := db.GetSteps(id)
		if err != nil {
			return err
		}

		fmt.Print(report.Markdown(run, groups, steps))
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "dendro.db")
	return database.Open(dbPath)
}
