package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/config"
	"github.com/dealdesk-dev/dealdesk/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var storeCode string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new dealdesk books repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, storeCode, noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dealership name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&storeCode, "store-code", "MAIN", "store code")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git repository setup")

	return cmd
}

func runInit(dir, name, storeCode string, noGit bool) error {
	// Create directory structure.
	dirs := []string{
		"accounts",
		"books",
		"deals",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write dealdesk.yaml.
	cfg := config.Default(name, storeCode)
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write .gitignore.
	gitignore := "exports/\nscratch/\n.dealdesk-cache/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if noGit {
		fmt.Printf("Initialized dealdesk repository at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	repo := gitops.Repo{Dir: dir}
	if err := repo.Init(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := repo.CommitAll("init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized dealdesk repository at %s (%s)\n", dir, hash)
	return nil
}
