package commands

import (
	"fmt"
	"os/user"
	"path/filepath"
	"time"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/activitylog"
	"github.com/dealdesk-dev/dealdesk/internal/config"
	"github.com/dealdesk-dev/dealdesk/internal/dealstore"
	"github.com/dealdesk-dev/dealdesk/internal/desking"
	"github.com/dealdesk-dev/dealdesk/internal/gitops"
	"github.com/dealdesk-dev/dealdesk/internal/gross"
	"github.com/dealdesk-dev/dealdesk/internal/journal"
	"github.com/dealdesk-dev/dealdesk/internal/ledger"
	"github.com/dealdesk-dev/dealdesk/internal/lifecycle"
)

// configFile is the workspace configuration file name.
const configFile = "dealdesk.yaml"

// workspace binds the services operating on one books repository.
// Every command that touches deals or books opens one.
type workspace struct {
	root     string
	cfg      *config.Config
	chart    *accounts.Service
	composer *desking.Composer
	machine  *lifecycle.Machine
	journal  *journal.Service
	deals    *dealstore.Store
	repo     gitops.Repo
}

// openWorkspace loads configuration and the chart of accounts from a
// books repository directory and wires the services around them.
func openWorkspace(dir string) (*workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, configFile))
	if err != nil {
		return nil, fmt.Errorf("not a dealdesk repository (missing %s): %w", configFile, err)
	}

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}

	decomposer := gross.NewDecomposer(cfg.ReserveSpread(), cfg.PackCosts())
	generator := ledger.NewGenerator(chart)

	return &workspace{
		root:     root,
		cfg:      cfg,
		chart:    chart,
		composer: desking.NewComposer(cfg.RateTable()),
		machine:  lifecycle.NewMachine(decomposer, generator),
		journal:  journal.NewService(root, chart),
		deals:    dealstore.New(root),
		repo:     gitops.Repo{Dir: root},
	}, nil
}

// logActivity appends one row to the activity log. Logging failures are
// reported but never fail the command that did the real work.
func (w *workspace) logActivity(action, dealNumber, entryNumber, commitHash, details string) {
	entry := activitylog.Entry{
		Timestamp:   time.Now(),
		User:        currentUser(),
		Action:      action,
		DealNumber:  dealNumber,
		EntryNumber: entryNumber,
		CommitHash:  commitHash,
		Details:     details,
	}
	if err := activitylog.Append(w.root, []activitylog.Entry{entry}); err != nil {
		fmt.Printf("warning: activity log: %v\n", err)
	}
}

// autoCommit commits the working tree when git auto-commit is enabled.
// Returns the commit hash, or "" when auto-commit is off.
func (w *workspace) autoCommit(message string) (string, error) {
	if !w.cfg.Git.AutoCommit || !w.repo.Exists() {
		return "", nil
	}
	return w.repo.CommitAll(message, w.cfg.Git.AuthorName, w.cfg.Git.AuthorEmail)
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}
