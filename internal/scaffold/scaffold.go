// Package scaffold creates new definegen projects from embedded templates.
package scaffold

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/definegen/pkg/define"
)

//go:embed all:templates
var templatesFS embed.FS

// ProjectNamePlaceholder is replaced by the project name in every template file.
const ProjectNamePlaceholder = "{{PROJECT_NAME}}"

// managedFiles may already exist in a target directory; templates never
// contain them.
var managedFiles = map[string]bool{".env": true, ".gitignore": true}

// GetTemplatesFS returns the embedded templates filesystem for testing purposes.
func GetTemplatesFS() embed.FS {
	return templatesFS
}

// Template describes one embedded template.
type Template struct {
	Name        string
	Description string
}

// Scaffolder handles project initialization from templates
type Scaffolder struct {
	logger define.Logger
}

// NewScaffolder creates a new Scaffolder instance
func NewScaffolder(logger define.Logger) *Scaffolder {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scaffolder{logger: logger}
}

// CreateProject creates a new project from a template
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) error {
	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found (see definegen init --list): %w", templateName, define.ErrInvalidConfig)
	}

	isEmpty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("target directory '%s' is not empty\n\ndefinegen init requires an empty directory to avoid overwriting existing tables.\n\nOptions:\n• Choose a different location\n• Remove existing files manually\n• Use a new directory name", targetPath)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	name := ProjectName(projectName)
	s.logger.Verbose("Creating project '%s' at %s with template '%s'", name, targetPath, templateName)

	if err := s.copyTemplateFiles(templatePath, targetPath, name); err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}

	s.logger.Verbose("Project created successfully")
	return nil
}

// copyTemplateFiles recursively copies files from embedded template to target directory
func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, projectName string) error {
	return fs.WalkDir(templatesFS, templatePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == templatePath {
			return nil
		}

		relPath := strings.TrimPrefix(p, templatePath+"/")
		targetFilePath := filepath.Join(targetPath, filepath.FromSlash(relPath))

		if d.IsDir() {
			s.logger.Verbose("Creating directory: %s", relPath)
			return os.MkdirAll(targetFilePath, 0755)
		}

		content, err := templatesFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}

		s.logger.Verbose("Creating file: %s", relPath)
		processed := strings.ReplaceAll(string(content), ProjectNamePlaceholder, projectName)
		if err := os.WriteFile(targetFilePath, []byte(processed), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetFilePath, err)
		}
		return nil
	})
}

// ProjectName turns a directory name into a study name that is safe in
// csv cells and identifiers: anything other than letters, digits, '-'
// and '_' becomes '_'.
func ProjectName(s string) string {
	s = strings.TrimSpace(filepath.Base(s))
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	name = strings.Trim(name, "_")
	if name == "" {
		return "STUDY"
	}
	return name
}

// ListTemplates returns the embedded templates in name order.
func ListTemplates() ([]Template, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, Template{Name: entry.Name(), Description: describe(entry.Name())})
		}
	}
	return templates, nil
}

// describe returns the first prose line of a template README.
func describe(name string) string {
	f, err := templatesFS.Open(path.Join("templates", name, "README.md"))
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// isDirectoryEmpty checks if a directory is empty or doesn't exist.
// Managed files such as .env do not count.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	for _, e := range entries {
		if !managedFiles[e.Name()] {
			return false, nil
		}
	}
	return true, nil
}

// BuildFileTree creates a visual tree representation of the directory structure.
func BuildFileTree(rootPath string) (string, error) {
	var sb strings.Builder

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}
	sb.WriteString(absPath + "/\n")

	err = walkTree(&sb, rootPath, "")
	if err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}
	return sb.String(), nil
}

func walkTree(sb *strings.Builder, dir, indent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, e := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		sb.WriteString(indent + branch + name + "\n")
		if e.IsDir() {
			if err := walkTree(sb, filepath.Join(dir, e.Name()), indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}
