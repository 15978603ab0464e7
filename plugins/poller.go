package plugins

import (
	"context"
	"fmt"
	"github.com/orangeandblueleague/filefairy"
	"github.com/orangeandblueleague/filefairy/actions"
	"github.com/orangeandblueleague/filefairy/config"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"golang.org/x/net/html"
	"hash/crc32"
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	// PollerPluginName holds identifying name for the poller plugin
	PollerPluginName = "Poller"

	// URLsKey is the map of resource names to the url to poll
	URLsKey = "urls"

	// NotificationKey is the notification emitted when a resource changed
	NotificationKey = "notification"

	// IntervalKey is the minimum duration between two checks of the resources
	IntervalKey = "interval"

	// TimeoutKey is the timeout of one fetch
	TimeoutKey = "timeout"

	// PageKey is the destination of the rendered status page
	PageKey = "page"

	// TemplateKey is the template of the rendered status page
	TemplateKey = "template"

	maxBodySize = 4 << 20
)

const (
	defaultPollerNotification = "fileDownload"
	defaultPollerInterval     = 5 * time.Minute
	defaultPollerTimeout      = 30 * time.Second
	defaultPollerPage         = "poller/index.html"
	defaultPollerTemplate     = "poller.html"

	resourcesField = "resources"
)

// Resource is the last known state of a polled resource
type Resource struct {
	Name     string
	URL      string
	Title    string
	Checksum uint32
	Changed  time.Time
	Checked  time.Time
	Error    string
}

// Poller holds the plugin data for the poller plugin. It fetches the configured resources at an
// interval, keeps a checksum of their content in its state and emits a notification when one changed
type Poller struct {
	*filefairy.Plugin

	client       *http.Client
	urls         map[string]string
	notification filefairy.Notification
	interval     time.Duration
	page         string
	template     string
	lastCheck    time.Time
	pending      []string
}

// NewPoller creates a new instance of the poller plugin. Its state document must already exist
// in storer
func NewPoller(c *config.PluginConfig, storer store.DocumentStorer) (p *filefairy.Plugin, err error) {
	pl := new(Poller)

	c.SetDefault(NotificationKey, defaultPollerNotification)
	c.SetDefault(IntervalKey, defaultPollerInterval)
	c.SetDefault(TimeoutKey, defaultPollerTimeout)
	c.SetDefault(PageKey, defaultPollerPage)
	c.SetDefault(TemplateKey, defaultPollerTemplate)

	pl.urls = c.GetStringMapString(URLsKey)
	if len(pl.urls) == 0 {
		return nil, fmt.Errorf("Missing %s config key: %s", PollerPluginName, URLsKey)
	}

	if pl.notification, err = filefairy.ParseNotification(c.GetString(NotificationKey)); err != nil {
		return nil, err
	}

	pl.interval = c.GetDuration(IntervalKey)
	pl.page = c.GetString(PageKey)
	pl.template = c.GetString(TemplateKey)
	pl.client = &http.Client{Timeout: c.GetDuration(TimeoutKey)}

	state, err := filefairy.NewState(PollerPluginName, storer)
	if err != nil {
		return nil, err
	}

	pl.Plugin = &filefairy.Plugin{Name: PollerPluginName, Description: "Polls league files and pages for changes", State: state,
		Run: pl.run, Render: pl.render,
		Commands: []filefairy.Command{
			actions.NewCommand("check").
				WithUsage(PollerPluginName + ".check()").
				WithDescription("Check all resources now").
				WithHandler(pl.check).
				Build(),
			actions.NewCommand("status").
				WithUsage(PollerPluginName + ".status()").
				WithDescription("List the resources with their last change").
				WithHandler(pl.status).
				Build(),
		}}

	return pl.Plugin, nil
}

// run checks the resources once the interval elapsed since the last check. Changes found by a
// check command since the last run are notified as well
func (pl *Poller) run(ctx filefairy.RunContext) (r *filefairy.Response, err error) {
	changed := pl.pending
	pl.pending = nil

	if pl.lastCheck.IsZero() || ctx.Now.Sub(pl.lastCheck) >= pl.interval {
		found, err := pl.checkAll(ctx.Now)
		if err != nil {
			pl.pending = changed
			return nil, err
		}
		changed = append(changed, found...)
	}

	if len(changed) == 0 {
		return filefairy.Empty(), nil
	}

	pl.Logger.Printf("Resources changed: %s", strings.Join(changed, ", "))
	return filefairy.Notify(pl.notification), nil
}

// checkAll fetches every resource and persists the state if anything changed or failed. Fetch
// failures are recorded on the resource and don't fail the check
func (pl *Poller) checkAll(now time.Time) (changed []string, err error) {
	pl.lastCheck = now
	resources := pl.resources()
	changed = make([]string, 0)
	dirty := false

	for _, name := range sortedKeys(pl.urls) {
		url := pl.urls[name]
		res := resources[name]
		res.Name = name
		res.URL = url
		res.Checked = now

		title, checksum, ferr := pl.fetch(url)
		if ferr != nil {
			pl.Logger.Printf("Failed to fetch [%s]: %v", url, ferr)
			if res.Error != ferr.Error() {
				dirty = true
			}
			res.Error = ferr.Error()
			resources[name] = res
			continue
		}

		if res.Error != "" {
			dirty = true
		}
		res.Error = ""

		if checksum != res.Checksum {
			pl.Logger.Debugf("[%s] changed from checksum [%d] to [%d]", name, res.Checksum, checksum)
			res.Checksum = checksum
			res.Title = title
			res.Changed = now
			changed = append(changed, name)
			dirty = true
		}

		resources[name] = res
	}

	if !dirty {
		return changed, nil
	}

	pl.setResources(resources)
	if err = pl.State.Write(); err != nil {
		return nil, err
	}

	return changed, nil
}

// fetch downloads a resource and returns its title and the checksum of its content. For html
// documents, only the text is hashed
func (pl *Poller) fetch(url string) (title string, checksum uint32, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), pl.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to create request")
	}

	resp, err := pl.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to read response")
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", crc32.ChecksumIEEE(body), nil
	}

	title, text, err := extractText(string(body))
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to parse html")
	}

	return title, crc32.ChecksumIEEE([]byte(text)), nil
}

// extractText returns the title and the visible text of an html document
func extractText(content string) (title string, text string, err error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "title":
				if n.FirstChild != nil && title == "" {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}

		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, sb.String(), nil
}

func (pl *Poller) check(c *filefairy.CommandCall) (err error) {
	changed, err := pl.checkAll(time.Now())
	if err != nil {
		return err
	}

	text := "No change"
	if len(changed) > 0 {
		pl.pending = append(pl.pending, changed...)
		text = fmt.Sprintf("Changed: %s", strings.Join(changed, ", "))
	}

	_, err = pl.Chat.Post(c.Message.Channel, text)
	return err
}

func (pl *Poller) status(c *filefairy.CommandCall) (err error) {
	var b strings.Builder

	for _, res := range pl.sortedResources() {
		fmt.Fprintf(&b, "\t• `%s` changed %s", res.Name, formatTime(res.Changed))
		if res.Error != "" {
			fmt.Fprintf(&b, " (last error: %s)", res.Error)
		}
		fmt.Fprintf(&b, "\n")
	}

	if b.Len() == 0 {
		b.WriteString("Nothing checked yet")
	}

	_, err = pl.Chat.Post(c.Message.Channel, b.String())
	return err
}

func (pl *Poller) render(ctx filefairy.RenderContext) (items []filefairy.RenderItem, err error) {
	return []filefairy.RenderItem{{Destination: pl.page, Subtitle: "Resources", Template: pl.template, Data: pl.sortedResources()}}, nil
}

// resources decodes the resources of the state document. The document holds them as generic
// JSON values keyed by resource name
func (pl *Poller) resources() (resources map[string]Resource) {
	resources = make(map[string]Resource)

	raw, ok := pl.State.Get(resourcesField)
	if !ok {
		return resources
	}

	for name, v := range cast.ToStringMap(raw) {
		fields := cast.ToStringMap(v)
		resources[name] = Resource{
			Name:     name,
			URL:      cast.ToString(fields["url"]),
			Title:    cast.ToString(fields["title"]),
			Checksum: cast.ToUint32(fields["checksum"]),
			Changed:  parseTime(fields["changed"]),
			Checked:  parseTime(fields["checked"]),
			Error:    cast.ToString(fields["error"]),
		}
	}

	return resources
}

func (pl *Poller) setResources(resources map[string]Resource) {
	raw := make(map[string]interface{})
	for name, res := range resources {
		raw[name] = map[string]interface{}{
			"url":      res.URL,
			"title":    res.Title,
			"checksum": float64(res.Checksum),
			"changed":  formatRFC3339(res.Changed),
			"checked":  formatRFC3339(res.Checked),
			"error":    res.Error,
		}
	}

	pl.State.Set(resourcesField, raw)
}

func (pl *Poller) sortedResources() (sorted []Resource) {
	resources := pl.resources()
	sorted = make([]Resource, 0, len(resources))
	for _, name := range sortedKeys(resources) {
		sorted = append(sorted, resources[name])
	}

	return sorted
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

func parseTime(v interface{}) time.Time {
	t, err := time.Parse(time.RFC3339, cast.ToString(v))
	if err != nil {
		return time.Time{}
	}

	return t
}

func formatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return fmt.Sprintf("`%s`", t.Format("2006-01-02 15:04:05"))
}
