package commands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"

	"github.com/jmylchreest/divarsearch/internal/city"
	"github.com/jmylchreest/divarsearch/internal/config"
	"github.com/jmylchreest/divarsearch/internal/llm"
	"github.com/jmylchreest/divarsearch/internal/pipeline"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	v := viper.New()
	v.Set("provider", "ollama")
	v.Set("base_url", baseURL)
	v.Set("fetch_mode", "static")
	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestBuildPipeline_OllamaPreflight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5:latest"}]}`))
	}))
	defer srv.Close()

	p, meta, err := buildPipeline(context.Background(), testConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("buildPipeline() error = %v", err)
	}
	if p == nil {
		t.Fatal("expected pipeline")
	}
	if meta.Provider != "ollama" || meta.Model != "qwen2.5:latest" || meta.FetchMode != "static" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestBuildPipeline_ModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer srv.Close()

	_, _, err := buildPipeline(context.Background(), testConfig(t, srv.URL))

	var upErr *llm.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *llm.UpstreamError, got %v", err)
	}
	if upErr.Op != "initialize" {
		t.Errorf("Op = %q, want initialize", upErr.Op)
	}
}

func TestBuildPipeline_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := testConfig(t, "")
	cfg.Provider = "openai"

	if _, _, err := buildPipeline(context.Background(), cfg); !errors.Is(err, llm.ErrUpstream) {
		t.Errorf("expected upstream initialization error, got %v", err)
	}
}

// --- search command ---

// countingOllama answers /api/tags without the default model, so a search
// that gets past input checks fails at provider initialization.
func countingOllama(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func runRoot(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestSearchCommand_QueryShorthand(t *testing.T) {
	srv, hits := countingOllama(t)

	err := runRoot("search", "-c", "shiraz", "-q", "گوشی سامسونگ", "--base-url", srv.URL)
	if errors.Is(err, pipeline.ErrMissingInput) {
		t.Fatalf("query flag not parsed: %v", err)
	}
	if !errors.Is(err, llm.ErrUpstream) {
		t.Errorf("expected provider initialization error, got %v", err)
	}
	if hits.Load() == 0 {
		t.Error("expected the provider check to run")
	}

	query, _ := searchCmd.Flags().GetString("query")
	if query != "گوشی سامسونگ" {
		t.Errorf("query = %q", query)
	}
}

func TestSearchCommand_RejectsPositionalArgs(t *testing.T) {
	srv, hits := countingOllama(t)

	if err := runRoot("search", "-c", "shiraz", "-q", "bike", "extra", "--base-url", srv.URL); err == nil {
		t.Fatal("expected error for stray positional argument")
	}
	if hits.Load() != 0 {
		t.Errorf("expected no provider calls, got %d", hits.Load())
	}
}

func TestSearchCommand_InvalidCityBeforeNetwork(t *testing.T) {
	srv, hits := countingOllama(t)

	err := runRoot("search", "-c", "Atlantis", "-q", "x", "--base-url", srv.URL)

	var cityErr *city.InvalidCityError
	if !errors.As(err, &cityErr) {
		t.Fatalf("expected *city.InvalidCityError, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no provider calls, got %d", hits.Load())
	}
}

func TestCheckInput(t *testing.T) {
	tests := []struct {
		city, query string
		want        error
	}{
		{"تهران", "apartment", nil},
		{"Bandar Abas", "boat", nil},
		{"", "apartment", pipeline.ErrMissingInput},
		{"Atlantis", "apartment", city.ErrInvalidCity},
	}

	for _, tt := range tests {
		err := checkInput(tt.city, tt.query)
		if tt.want == nil && err != nil {
			t.Errorf("checkInput(%q, %q) error = %v", tt.city, tt.query, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("checkInput(%q, %q) error = %v, want %v", tt.city, tt.query, err, tt.want)
		}
	}
}
