package appcore_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/appcore/pkg/appcore"
	"github.com/randalmurphal/appcore/pkg/appcore/config"
	aerrors "github.com/randalmurphal/appcore/pkg/appcore/errors"
	"github.com/randalmurphal/appcore/pkg/appcore/event"
	"github.com/randalmurphal/appcore/pkg/appcore/httpreq"
)

func TestGetInstance_SameUntilDestroy(t *testing.T) {
	t.Cleanup(appcore.Destroy)

	a := appcore.GetInstance()
	b := appcore.GetInstance()
	assert.Same(t, a, b)

	appcore.Destroy()
	c := appcore.GetInstance()
	assert.NotSame(t, a, c)
	assert.True(t, a.Destroyed())
	assert.False(t, c.Destroyed())
}

func TestDestroy_FreshEmptyState(t *testing.T) {
	t.Cleanup(appcore.Destroy)

	core := appcore.GetInstance()
	require.NoError(t, core.StorageSet("k", "v"))
	_, err := core.On("save", func(any) {})
	require.NoError(t, err)

	appcore.Destroy()
	fresh := appcore.GetInstance()

	_, ok := fresh.StorageGet("k")
	assert.False(t, ok, "key set before destroy must be absent")
	assert.Zero(t, fresh.Storage().Len())
	assert.Empty(t, fresh.Events().Types())
}

func TestDestroy_Idempotent(t *testing.T) {
	acc := appcore.NewAccessor()
	acc.Destroy()

	core := acc.Get()
	acc.Destroy()
	acc.Destroy()

	assert.True(t, core.Destroyed())
	assert.NotSame(t, core, acc.Get())
}

func TestDestroy_ClearsEntriesOfOldCore(t *testing.T) {
	acc := appcore.NewAccessor()
	core := acc.Get()

	require.NoError(t, core.StorageSet("a", 1))
	require.NoError(t, core.StorageSet("b", 2))
	sub, err := core.On("x", func(any) {})
	require.NoError(t, err)

	acc.Destroy()

	assert.Zero(t, core.Storage().Len())
	assert.Empty(t, core.Events().Types())
	assert.False(t, sub.Active())
}

func TestDestroyedCore_Detached(t *testing.T) {
	acc := appcore.NewAccessor()
	stale := acc.Get()
	acc.Destroy()
	fresh := acc.Get()

	ctx := context.Background()
	tests := []struct {
		name string
		call func() error
	}{
		{"On", func() error { _, err := stale.On("e", func(any) {}); return err }},
		{"Off", func() error { return stale.Off("e", func(any) {}) }},
		{"Emit", func() error { return stale.Emit(ctx, "e", nil) }},
		{"StorageSet", func() error { return stale.StorageSet("k", "v") }},
		{"StorageRemove", func() error { return stale.StorageRemove("k") }},
		{"SetConfigProp", func() error { return stale.SetConfigProp("ui", "theme", "dark") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), appcore.ErrDestroyed)
		})
	}

	_, ok := stale.StorageGet("k")
	assert.False(t, ok)
	assert.Zero(t, fresh.Storage().Len(), "stale writes must not reach the new core")
	assert.Empty(t, fresh.Events().Types())
}

func TestConfig_SurvivesDestroy(t *testing.T) {
	cfg := config.New(map[string]map[string]string{
		"ui": {"theme": "light"},
	})
	acc := appcore.NewAccessor(appcore.WithConfig(cfg))

	require.NoError(t, acc.Get().SetConfigProp("ui", "theme", "dark"))
	acc.Destroy()

	core := acc.Get()
	assert.Same(t, cfg, core.Config())
	assert.Same(t, cfg, acc.Config())
	v, ok := core.Config().Get("ui", "theme")
	require.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestSetConfigProp(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]map[string]string
		wantErr  error
		want     map[string]map[string]string
	}{
		{
			name:     "existing key",
			sections: map[string]map[string]string{"ui": {"theme": "light"}},
			want:     map[string]map[string]string{"ui": {"theme": "dark"}},
		},
		{
			name:     "missing key",
			sections: map[string]map[string]string{"ui": {"font": "mono"}},
			wantErr:  config.ErrUnknownKey,
			want:     map[string]map[string]string{"ui": {"font": "mono"}},
		},
		{
			name:     "missing section",
			sections: map[string]map[string]string{"net": {"proxy": "none"}},
			wantErr:  config.ErrUnknownSection,
			want:     map[string]map[string]string{"net": {"proxy": "none"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := appcore.New(appcore.WithConfig(config.New(tt.sections)))

			err := core.SetConfigProp("ui", "theme", "dark")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, aerrors.IsInvalidArgument(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, core.Config().Snapshot())
		})
	}
}

func TestCore_EventFacade(t *testing.T) {
	core := appcore.New()
	ctx := context.Background()

	var got []any
	handler := func(data any) { got = append(got, data) }

	_, err := core.On("save", handler)
	require.NoError(t, err)
	require.NoError(t, core.Emit(ctx, "save", "a"))

	require.NoError(t, core.Off("save", handler))
	require.NoError(t, core.Emit(ctx, "save", "b"))

	assert.Equal(t, []any{"a"}, got)
	assert.False(t, core.Events().Has("save"))
}

func TestCore_PolicyOption(t *testing.T) {
	tests := []struct {
		policy event.Policy
		want   int
	}{
		{event.PolicyDedup, 1},
		{event.PolicyAppend, 2},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			core := appcore.New(appcore.WithPolicy(tt.policy))

			calls := 0
			handler := func(any) { calls++ }
			_, _ = core.On("save", handler)
			_, _ = core.On("save", handler)

			require.NoError(t, core.Emit(context.Background(), "save", nil))
			assert.Equal(t, tt.want, calls)
		})
	}
}

func TestCore_PanicHandlerOption(t *testing.T) {
	var recovered *event.HandlerPanicError
	core := appcore.New(appcore.WithPanicHandler(func(err *event.HandlerPanicError) {
		recovered = err
	}))

	_, err := core.On("boom", func(any) { panic("bad") })
	require.NoError(t, err)

	err = core.Emit(context.Background(), "boom", nil)
	require.Error(t, err)
	require.NotNil(t, recovered)
	assert.Equal(t, "boom", recovered.EventType)
}

func TestCore_StorageFacade(t *testing.T) {
	core := appcore.New()

	_, ok := core.StorageGet("k")
	assert.False(t, ok)

	require.NoError(t, core.StorageSet("k", 42))
	v, ok := core.StorageGet("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	require.NoError(t, core.StorageRemove("k"))
	require.NoError(t, core.StorageRemove("k"))
	_, ok = core.StorageGet("k")
	assert.False(t, ok)

	err := core.StorageSet("k", nil)
	assert.True(t, aerrors.IsInvalidArgument(err))
	_, ok = core.StorageGet("k")
	assert.False(t, ok)
}

func TestCore_HTTPConfiguredFromConfig(t *testing.T) {
	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := config.New(map[string]map[string]string{
		"http": {"timeout": "5s", "user_agent": "appcore-test"},
	})
	core := appcore.New(appcore.WithConfig(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := core.HTTP().Get(ctx, srv.URL, nil).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "appcore-test", <-agents)
}

func TestCore_HTTPOptionsOverride(t *testing.T) {
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Header:     make(http.Header),
			Body:       http.NoBody,
			Request:    req,
		}, nil
	})
	core := appcore.New(appcore.WithHTTPOptions(httpreq.WithDoer(doer)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := core.HTTP().Get(ctx, "http://example.invalid/", nil).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestCore_DestroyLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	acc := appcore.NewAccessor(appcore.WithLogger(logger))
	require.NoError(t, acc.Get().StorageSet("k", "v"))
	acc.Destroy()

	assert.Contains(t, buf.String(), `"storage_keys":1`)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
