package filefairy

import (
	"context"
	"time"
	"unicode"

	"github.com/nlopes/slack"
	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/metric"
)

var chatMethods = []string{"Post", "Update", "Upload"}

// chatWithTelemetry implements Chat with all methods wrapped with open telemetry metrics
type chatWithTelemetry struct {
	base               Chat
	methodCounters     map[string]metric.BoundInt64Counter
	errCounters        map[string]metric.BoundInt64Counter
	methodTimeMeasures map[string]metric.BoundInt64Measure
}

// newChatWithTelemetry returns an instance of the Chat decorated with open telemetry timing and count metrics
func newChatWithTelemetry(base Chat, name string, meter metric.Meter) chatWithTelemetry {
	return chatWithTelemetry{
		base:               base,
		methodCounters:     newChatMethodCounters("Calls", name, meter),
		errCounters:        newChatMethodCounters("Errors", name, meter),
		methodTimeMeasures: newChatMethodTimeMeasures(name, meter),
	}
}

func newChatMethodTimeMeasures(appName string, meter metric.Meter) (boundTimeMeasures map[string]metric.BoundInt64Measure) {
	boundTimeMeasures = make(map[string]metric.BoundInt64Measure)

	for _, method := range chatMethods {
		n := []rune("Chat_" + method + "_ProcessingTimeMillis")
		n[0] = unicode.ToLower(n[0])
		m := meter.NewInt64Measure(string(n), metric.WithKeys(key.New("name")))
		boundTimeMeasures[method] = m.Bind(meter.Labels(key.New("name").String(appName)))
	}

	return boundTimeMeasures
}

func newChatMethodCounters(suffix string, appName string, meter metric.Meter) (boundCounters map[string]metric.BoundInt64Counter) {
	boundCounters = make(map[string]metric.BoundInt64Counter)

	for _, method := range chatMethods {
		n := []rune("Chat_" + method + "_" + suffix)
		n[0] = unicode.ToLower(n[0])
		c := meter.NewInt64Counter(string(n), metric.WithKeys(key.New("name")))
		boundCounters[method] = c.Bind(meter.Labels(key.New("name").String(appName)))
	}

	return boundCounters
}

func (_d chatWithTelemetry) record(method string, since time.Time, err error) {
	if err != nil {
		errCounter := _d.errCounters[method]
		errCounter.Add(context.Background(), 1)
	}

	methodCounter := _d.methodCounters[method]
	methodCounter.Add(context.Background(), 1)

	methodTimeMeasure := _d.methodTimeMeasures[method]
	methodTimeMeasure.Record(context.Background(), time.Since(since).Milliseconds())
}

// Post implements Chat
func (_d chatWithTelemetry) Post(channel string, text string, attachments ...slack.Attachment) (ts string, err error) {
	_since := time.Now()
	defer func() {
		_d.record("Post", _since, err)
	}()
	return _d.base.Post(channel, text, attachments...)
}

// Update implements Chat
func (_d chatWithTelemetry) Update(ts string, channel string, text string, attachments ...slack.Attachment) (err error) {
	_since := time.Now()
	defer func() {
		_d.record("Update", _since, err)
	}()
	return _d.base.Update(ts, channel, text, attachments...)
}

// Upload implements Chat
func (_d chatWithTelemetry) Upload(content string, filename string, channel string) (err error) {
	_since := time.Now()
	defer func() {
		_d.record("Upload", _since, err)
	}()
	return _d.base.Upload(content, filename, channel)
}
