package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/homelab-dev/homelab/pkg/ui/notify"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvenienceFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(buf *bytes.Buffer)
		expect string
	}{
		{
			name:   "error",
			write:  func(buf *bytes.Buffer) { notify.Errorf(buf, "boom: %s", "detail") },
			expect: "✗ boom: detail\n",
		},
		{
			name:   "warning",
			write:  func(buf *bytes.Buffer) { notify.Warningf(buf, "careful") },
			expect: "⚠ careful\n",
		},
		{
			name:   "activity",
			write:  func(buf *bytes.Buffer) { notify.Activityf(buf, "installing %s", "cilium") },
			expect: "► installing cilium\n",
		},
		{
			name:   "success",
			write:  func(buf *bytes.Buffer) { notify.Successf(buf, "done") },
			expect: "✔ done\n",
		},
		{
			name:   "info",
			write:  func(buf *bytes.Buffer) { notify.Infof(buf, "note") },
			expect: "ℹ note\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			testCase.write(&buf)

			assert.Equal(t, testCase.expect, buf.String())
		})
	}
}

func TestTitlef_DefaultEmoji(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Install stack...",
		Writer:  &buf,
	})

	assert.Equal(t, "ℹ️ Install stack...\n", buf.String())
}

func TestTitlef_CustomEmoji(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Titlef(&buf, "🚀", "Init cluster '%s'...", "homelab")

	assert.Equal(t, "🚀 Init cluster 'homelab'...\n", buf.String())
}

func TestWriteMessage_MultilineIndentation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Errorf(&buf, "first\nsecond")

	assert.Equal(t, "✗ first\n  second\n", buf.String())
}

func TestSuccessWithTimerf_AppendsTimingBlock(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tmr := timer.NewWithClock(func() time.Time { return current })
	tmr.Start()

	current = current.Add(time.Second)

	var buf bytes.Buffer

	notify.SuccessWithTimerf(&buf, tmr, "cluster created")

	output := buf.String()
	require.Contains(t, output, "✔ cluster created\n")
	require.Contains(t, output, "⏲ stage: 1s (total: 1s)")
}
