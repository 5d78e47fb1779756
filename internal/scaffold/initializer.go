package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/dyluth/kanban/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Options are the values substituted into the generated kanban.yml
type Options struct {
	Instance string
	Backend  string
}

// Initialize creates kanban.yml in the current directory.
// If force is true, an existing kanban.yml is replaced. Board data under
// .kanban/ is never touched.
func Initialize(opts Options, force bool) error {
	if opts.Instance == "" {
		opts.Instance = config.DefaultInstance
	}
	if opts.Backend == "" {
		opts.Backend = config.BackendSQLite
	}

	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles(opts)
	if err != nil {
		return err
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	return validateCreatedFiles()
}

// handleForce removes the existing config if --force was specified
func handleForce() error {
	if _, err := os.Stat(config.DefaultPath); err == nil {
		fmt.Printf("⚠️  Removing existing %s...\n", config.DefaultPath)
		if err := os.Remove(config.DefaultPath); err != nil {
			return fmt.Errorf("failed to remove %s: %w", config.DefaultPath, err)
		}
	}
	return nil
}

// getTemplateFiles reads and renders all template files
func getTemplateFiles(opts Options) ([]FileInfo, error) {
	raw, err := templatesFS.ReadFile("templates/kanban.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read kanban.yml template: %w", err)
	}

	tmpl, err := template.New("kanban.yml").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse kanban.yml template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("failed to render kanban.yml: %w", err)
	}

	return []FileInfo{{
		Path:        config.DefaultPath,
		Content:     buf.Bytes(),
		Permissions: 0644,
	}}, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// validateCreatedFiles loads the generated config through the real loader
func validateCreatedFiles() error {
	if _, err := config.Load(config.DefaultPath); err != nil {
		return fmt.Errorf("created %s is not valid: %w", config.DefaultPath, err)
	}
	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess(w io.Writer) {
	fmt.Fprintln(w, "\n✅ Successfully initialized kanban board!")
	fmt.Fprintln(w, "\nCreated:")
	fmt.Fprintf(w, "  ✓ %s\n", config.DefaultPath)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Add '.kanban/' to your .gitignore file")
	fmt.Fprintln(w, "  2. Run 'kanban task add \"My first task\"'")
	fmt.Fprintln(w, "  3. Run 'kanban board' to see it")
}
