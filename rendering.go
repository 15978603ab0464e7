package filefairy

import (
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"
)

// PageData is what page templates are executed with
type PageData struct {
	Title    string
	Subtitle string
	Date     time.Time
	Data     interface{}
}

// revisions returns the state revision of every plugin with state
func (ff *Filefairy) revisions() (revs map[*entry]uint64) {
	revs = make(map[*entry]uint64)
	for _, e := range ff.entries {
		if e.State != nil {
			revs[e] = e.State.Revision()
		}
	}

	return revs
}

// renderChanged renders every Renderable plugin whose state was written since revs was taken
func (ff *Filefairy) renderChanged(revs map[*entry]uint64, now time.Time) {
	for _, e := range ff.entries {
		if !e.active() || !e.Has(Renderable) || e.State == nil {
			continue
		}

		if e.State.Revision() != revs[e] {
			ff.render(e, now)
		}
	}
}

// render builds the pages of a plugin. A failure to render one page is logged and the
// remaining pages are still rendered
func (ff *Filefairy) render(e *entry, now time.Time) {
	if ff.renderer == nil {
		ff.log.Debugf("No renderer configured, skipping render of [%s]", e.Name)
		return
	}

	var items []RenderItem
	ff.invoke(e, "render", func() (r *Response, err error) {
		items, err = e.Render(RenderContext{Now: now})
		return nil, err
	})

	for _, item := range items {
		if err := ff.renderItem(e, item, now); err != nil {
			ff.log.Printf("Failed to render [%s] for [%s]: %v", item.Destination, e.Name, err)
		}
	}
}

func (ff *Filefairy) renderItem(e *entry, item RenderItem, now time.Time) (err error) {
	if err = validate.Struct(item); err != nil {
		return errors.Wrap(err, "invalid render item")
	}

	content, err := ff.renderer.Render(item.Template, PageData{Title: e.Name, Subtitle: item.Subtitle, Date: now, Data: item.Data})
	if err != nil {
		return err
	}

	outputDir, err := homedir.Expand(ff.outputDir)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("invalid output directory [%s]", ff.outputDir))
	}

	localPath := filepath.Join(outputDir, filepath.FromSlash(item.Destination))
	if err = os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to create directory for [%s]", localPath))
	}

	if err = ioutil.WriteFile(localPath, []byte(content), 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to write [%s]", localPath))
	}

	ff.log.Debugf("Rendered [%s] for [%s]", localPath, e.Name)
	ff.publish(localPath, item.Destination)

	return nil
}

// publish copies a rendered page to its destination in the background. Failures are logged
func (ff *Filefairy) publish(localPath string, destination string) {
	if ff.publisher == nil {
		return
	}

	ctx := ff.ctx
	ff.publishing.Add(1)
	go func() {
		defer ff.publishing.Done()

		if err := ff.publisher.Publish(ctx, localPath, destination); err != nil {
			ff.log.Printf("Failed to publish [%s] to [%s]: %v", localPath, destination, err)
			return
		}

		ff.log.Debugf("Published [%s] to [%s]", localPath, destination)
	}()
}
