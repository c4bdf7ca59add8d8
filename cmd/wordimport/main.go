package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"spellingvocab/internal/config"
	"spellingvocab/internal/database"
	"spellingvocab/internal/repository"
	"spellingvocab/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "wordimport",
	Short:         "Manage the word catalog stored in the database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import words from a JSON file",
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all words to a JSON file",
	RunE:  runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show word counts per grade and list",
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides DB_PATH)")

	importCmd.Flags().String("input", "", "Input file path (required)")
	importCmd.Flags().Bool("clear", false, "Replace all existing words (WARNING: destructive)")
	importCmd.Flags().Bool("yes", false, "Skip the confirmation prompt for --clear")
	_ = importCmd.MarkFlagRequired("input")

	exportCmd.Flags().String("output", "", "Output file path (default: words_YYYYMMDD_HHMMSS.json)")

	rootCmd.AddCommand(importCmd, exportCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// openBackupService connects to the configured database and runs migrations
func openBackupService(cmd *cobra.Command) (*service.WordBackupService, func(), error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DatabasePath = p
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := repository.NewWordRepository(db)
	return service.NewWordBackupService(repo, cfg.DatabaseType), func() { db.Close() }, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	clearData, _ := cmd.Flags().GetBool("clear")
	skipPrompt, _ := cmd.Flags().GetBool("yes")

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	if clearData && !skipPrompt {
		fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will delete all existing words. Type 'yes' to confirm: ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			log.Println("Import cancelled")
			return nil
		}
	}

	backup, closeDB, err := openBackupService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	log.Printf("Importing words from: %s", inputPath)
	result, err := backup.Import(inputPath, clearData)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, dropped := range result.Dropped {
		log.Printf("Warning: skipped record: %v", dropped)
	}
	log.Printf("Import complete! %d words imported, %d skipped", result.Imported, len(result.Dropped))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("words_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	backup, closeDB, err := openBackupService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	log.Printf("Exporting words to: %s", outputPath)
	if err := backup.Export(outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.1f KB", float64(info.Size())/1024)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	backup, closeDB, err := openBackupService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := backup.Stats()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRADE\tLIST\tWORDS")
	total := 0
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", s.Grade, s.List, s.Words)
		total += s.Words
	}
	fmt.Fprintf(tw, "\t%d lists\t%d\n", len(stats), total)
	return tw.Flush()
}
