// Package render holds the collaborators used by renderable plugins: a template Renderer
// producing html pages and a Publisher copying rendered pages to their remote destination
package render

import (
	"bytes"
	"context"
	"github.com/mitchellh/go-homedir"
	"github.com/orangeandblueleague/filefairy/exec"
	"github.com/pkg/errors"
	"html/template"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Renderer is implemented by any value that has the Render method
type Renderer interface {
	// Render executes the named template with data
	Render(name string, data interface{}) (content string, err error)
}

// Publisher is implemented by any value that has the Publish method
type Publisher interface {
	// Publish copies the file at localPath to the remote destination
	Publish(ctx context.Context, localPath string, destination string) (err error)
}

// TemplateRenderer renders html templates
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses all *.html templates found in templateDir. Templates are
// named after their file name (i.e. "poller.html")
func NewTemplateRenderer(templateDir string) (tr *TemplateRenderer, err error) {
	dir, err := homedir.Expand(templateDir)
	if err != nil {
		return nil, err
	}

	t, err := template.New("").Funcs(funcs).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse templates in [%s]", dir)
	}

	return NewRendererWithTemplates(t), nil
}

// NewRendererWithTemplates returns a TemplateRenderer using already parsed templates
func NewRendererWithTemplates(t *template.Template) (tr *TemplateRenderer) {
	tr = new(TemplateRenderer)
	tr.templates = t

	return tr
}

// Render executes the named template
func (tr *TemplateRenderer) Render(name string, data interface{}) (content string, err error) {
	var b bytes.Buffer
	if err = tr.templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to render template [%s]", name)
	}

	return b.String(), nil
}

var funcs = template.FuncMap{
	"title": strings.Title,
	"datetime": func(t time.Time) string {
		return t.Format("Monday, January 2, 2006 3:04 PM")
	},
}

// CommandPublisher publishes files by running a copy command (i.e. scp) with the
// local path and the remote destination as its last two arguments
type CommandPublisher struct {
	runner      exec.Runner
	command     []string
	destination string
	timeout     time.Duration
}

// NewCommandPublisher returns a new CommandPublisher. The destination is the remote prefix
// to which the published destination paths are joined
func NewCommandPublisher(runner exec.Runner, command []string, destination string, timeout time.Duration) (cp *CommandPublisher) {
	cp = new(CommandPublisher)
	cp.runner = runner
	cp.command = command
	cp.destination = destination
	cp.timeout = timeout

	return cp
}

// Publish copies localPath to the remote destination
func (cp *CommandPublisher) Publish(ctx context.Context, localPath string, destination string) (err error) {
	remote := cp.remotePath(destination)

	argv := make([]string, 0, len(cp.command)+2)
	argv = append(argv, cp.command...)
	argv = append(argv, localPath, remote)

	result := cp.runner.Run(ctx, argv, cp.timeout)
	if result.TimedOut {
		return errors.Errorf("publishing [%s] to [%s] timed out", localPath, remote)
	}

	if !result.OK {
		return errors.Errorf("publishing [%s] to [%s] failed with exit code [%d]: %s", localPath, remote, result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return nil
}

func (cp *CommandPublisher) remotePath(destination string) string {
	if strings.HasSuffix(cp.destination, ":") {
		return cp.destination + destination
	}

	return path.Join(cp.destination, destination)
}
