package filefairy_test

import (
	"github.com/orangeandblueleague/filefairy"
	"github.com/stretchr/testify/assert"
	"log"
	"strings"
	"testing"
)

func TestLogWhenDebugEnabled(t *testing.T) {
	var b strings.Builder
	l := log.New(&b, "", 0)
	slog := filefairy.NewSLogger(l, true)

	slog.Debugf("Writing a log statement for my little %s\n", "red bird")
	o := b.String()

	assert.Equal(t, "Writing a log statement for my little red bird\n", o)
}

func TestLogWhenDebugDisabled(t *testing.T) {
	var b strings.Builder
	l := log.New(&b, "", 0)
	slog := filefairy.NewSLogger(l, false)

	slog.Debugf("Writing a log statement for my little %s\n", "red bird")
	o := b.String()

	// Nothing should have been logged
	assert.Equal(t, "", o)
}

func TestPrintfLogsWhenDebugDisabled(t *testing.T) {
	var b strings.Builder
	l := log.New(&b, "", 0)
	slog := filefairy.NewSLogger(l, false)

	slog.Printf("Writing a log statement for my little %s\n", "red bird")
	o := b.String()

	assert.Equal(t, "Writing a log statement for my little red bird\n", o)
}

func TestTaggedLogger(t *testing.T) {
	var b strings.Builder
	l := log.New(&b, "", 0)
	slog := filefairy.NewSLogger(l, true).Tagged("Poller")

	slog.Printf("Fetched %d urls", 3)
	slog.Debugf("Nothing changed")

	assert.Equal(t, "[Poller] Fetched 3 urls\n[Poller] Nothing changed\n", b.String())
}
