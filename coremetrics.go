package filefairy

import (
	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/metric"
	"time"
)

// instrumenter holds data for core instrumentation
type instrumenter struct {
	appName       string
	coreMetrics   coreMetrics
	pluginMetrics map[string]pluginMetrics
	meter         metric.Meter
}

// coreMetrics holds core filefairy metrics
type coreMetrics struct {
	eventsSeen            map[eventKind]metric.BoundInt64Counter
	dispatchLatencyMillis map[eventKind]metric.BoundInt64Measure
	notificationsSent     metric.BoundInt64Counter
	patchesApplied        metric.BoundInt64Counter
	reconnects            metric.BoundInt64Counter
}

// pluginMetrics holds metrics specific to a plugin
type pluginMetrics struct {
	processingTimeMillis metric.BoundInt64Measure
	invocationCount      metric.BoundInt64Counter
	failureCount         metric.BoundInt64Counter
}

// newInstrumenter creates a new core instrumenter
func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter) {
	ins = new(instrumenter)

	defaultLabels := meter.Labels(key.New("name").String(appName))

	notificationsSent := meter.NewInt64Counter("notificationsSent", metric.WithKeys(key.New("name")))
	patchesApplied := meter.NewInt64Counter("patchesApplied", metric.WithKeys(key.New("name")))
	reconnects := meter.NewInt64Counter("reconnects", metric.WithKeys(key.New("name")))
	ins.coreMetrics = coreMetrics{eventsSeen: newBoundCounterByEventKind("eventsSeen", appName, meter),
		dispatchLatencyMillis: newBoundMeasureByEventKind("dispatchLatencyMillis", appName, meter),
		notificationsSent:     notificationsSent.Bind(defaultLabels),
		patchesApplied:        patchesApplied.Bind(defaultLabels),
		reconnects:            reconnects.Bind(defaultLabels)}

	ins.appName = appName
	ins.pluginMetrics = make(map[string]pluginMetrics)

	ins.meter = meter
	return ins
}

// newBoundCounterByEventKind creates a set of BoundInt64Counter by event kind
func newBoundCounterByEventKind(counterName string, appName string, meter metric.Meter) (boundCounter map[eventKind]metric.BoundInt64Counter) {
	boundCounter = make(map[eventKind]metric.BoundInt64Counter)

	c := meter.NewInt64Counter(counterName, metric.WithKeys(key.New("name"), key.New("eventKind")))
	for _, k := range eventKinds {
		boundCounter[k] = c.Bind(meter.Labels(key.New("name").String(appName), key.New("eventKind").String(k.String())))
	}

	return boundCounter
}

// newBoundMeasureByEventKind creates a set of BoundInt64Measure by event kind
func newBoundMeasureByEventKind(measureName string, appName string, meter metric.Meter) (boundMeasure map[eventKind]metric.BoundInt64Measure) {
	boundMeasure = make(map[eventKind]metric.BoundInt64Measure)

	m := meter.NewInt64Measure(measureName, metric.WithKeys(key.New("name"), key.New("eventKind")))
	for _, k := range eventKinds {
		boundMeasure[k] = m.Bind(meter.Labels(key.New("name").String(appName), key.New("eventKind").String(k.String())))
	}

	return boundMeasure
}

// getOrCreatePluginMetrics returns an existing pluginMetrics for a plugin or creates a new one, if necessary
func (ins *instrumenter) getOrCreatePluginMetrics(pluginName string) (pm pluginMetrics) {
	if pm, ok := ins.pluginMetrics[pluginName]; !ok {
		pm = newPluginMetrics(ins.appName, pluginName, ins.meter)
		ins.pluginMetrics[pluginName] = pm
	}

	return ins.pluginMetrics[pluginName]
}

// newPluginMetrics returns a new pluginMetrics instance for a plugin
func newPluginMetrics(appName string, pluginName string, meter metric.Meter) (pm pluginMetrics) {
	c := meter.NewInt64Counter("invocationCount", metric.WithKeys(key.New("name"), key.New("plugin")))
	f := meter.NewInt64Counter("failureCount", metric.WithKeys(key.New("name"), key.New("plugin")))
	m := meter.NewInt64Measure("processingTimeMillis", metric.WithKeys(key.New("name"), key.New("plugin")))

	labels := meter.Labels(key.New("name").String(appName), key.New("plugin").String(pluginName))
	pm.invocationCount = c.Bind(labels)
	pm.failureCount = f.Bind(labels)
	pm.processingTimeMillis = m.Bind(labels)

	return pm
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Now().Sub(before)
}
