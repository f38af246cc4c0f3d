package prometheus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushCommand sends everything g gathers to the Pushgateway at url, grouped
// by job and command. The CLI is short-lived, so this runs once per command.
// An empty url disables pushing.
func PushCommand(ctx context.Context, url, job, command string, g prometheus.Gatherer) error {
	if url == "" {
		return nil
	}
	return push.New(url, job).
		Gatherer(g).
		Grouping("command", command).
		PushContext(ctx)
}
