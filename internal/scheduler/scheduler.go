package scheduler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Connectivity receives the probe verdicts. weather.State satisfies it.
type Connectivity interface {
	SetOnline(online bool)
}

// Prober periodically checks whether the collaborators are reachable and
// flips the online flag accordingly.
type Prober struct {
	scheduler *gocron.Scheduler
	client    *http.Client
	target    Connectivity
	url       string
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

// New creates a new Prober. An interval <= 0 makes Start a no-op.
func New(client *http.Client, url string, interval time.Duration, target Connectivity, logger zerolog.Logger) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	timeout := 5 * time.Second
	if interval > 0 && interval < timeout {
		timeout = interval
	}
	return &Prober{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		target:    target,
		url:       url,
		interval:  interval,
		timeout:   timeout,
		logger:    logger.With().Str("component", "connectivity").Logger(),
	}
}

// Start schedules the probe and starts the underlying scheduler.
func (p *Prober) Start() error {
	if p.interval <= 0 || p.url == "" {
		p.logger.Info().Msg("connectivity probe disabled")
		return nil
	}

	seconds := int(p.interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}

	_, err := p.scheduler.Every(seconds).Seconds().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.RunProbe(ctx)
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// RunProbe performs one reachability check and reports the verdict.
// Any response from the server counts as online; only transport failures
// count as offline.
func (p *Prober) RunProbe(ctx context.Context) bool {
	online := p.reachable(ctx)
	p.target.SetOnline(online)
	p.logger.Debug().Bool("online", online).Msg("connectivity probed")
	return online
}

func (p *Prober) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return true
}

// Stop stops the scheduler and cancels any future probes.
func (p *Prober) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}
