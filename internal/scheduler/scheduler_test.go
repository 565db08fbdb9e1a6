package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	verdict []bool
}

func (r *recorder) SetOnline(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdict = append(r.verdict, online)
}

func (r *recorder) values() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.verdict...)
}

func TestRunProbe_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	rec := &recorder{}
	p := New(srv.Client(), srv.URL, time.Minute, rec, zerolog.Nop())

	assert.True(t, p.RunProbe(context.Background()))
	assert.Equal(t, []bool{true}, rec.values())
}

func TestRunProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &recorder{}
	p := New(nil, url, time.Minute, rec, zerolog.Nop())

	assert.False(t, p.RunProbe(context.Background()))
	assert.Equal(t, []bool{false}, rec.values())
}

func TestStart_DisabledIntervalSchedulesNothing(t *testing.T) {
	rec := &recorder{}
	p := New(nil, "http://127.0.0.1:1", 0, rec, zerolog.Nop())

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.False(t, p.scheduler.IsRunning())
	assert.Empty(t, rec.values())
}

func TestStart_ProbesPeriodically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rec := &recorder{}
	p := New(srv.Client(), srv.URL, time.Second, rec, zerolog.Nop())
	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return len(rec.values()) > 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.True(t, rec.values()[0])
}
