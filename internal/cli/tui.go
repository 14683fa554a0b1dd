package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lmtodo/internal/app"
	"github.com/nhle/lmtodo/internal/keys"
)

// runTUI starts the terminal UI. The TUI owns the terminal, so logs go to
// debug.log next to the config file when LMTODO_DEBUG is set and are
// dropped otherwise.
func runTUI(o *options) error {
	cfg, cfgPath, err := o.load()
	if err != nil {
		return err
	}

	if os.Getenv(debugEnv) != "" {
		dir := filepath.Dir(cfgPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "lmtodo")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	s, err := o.openStore(cfg.General.DBPath)
	if err != nil {
		return err
	}

	km, unknown := keys.FromConfig(cfg.Shortcuts)
	for _, action := range unknown {
		log.Printf("ignoring shortcut for unknown action %q", action)
	}

	m := app.New(s, cfg, cfgPath, km, app.WithOpener(o.openStore))
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	// The database may have been relocated while running.
	if fm, ok := final.(app.Model); ok {
		if cerr := fm.Close(); cerr != nil {
			log.Printf("closing database: %v", cerr)
		}
	} else {
		s.Close()
	}

	if err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
