package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the OpenAI embeddings/completions endpoints and a
// Qdrant search endpoint, recording the prompt it was sent.
type fakeBackend struct {
	srv     *httptest.Server
	prompts []string
	temps   []float64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2],"index":0}]}`))
	})
	mux.HandleFunc("/collections/airbyte/points/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"id":1,"score":0.9,"payload":{"text":"Airbyte supports 300+ connectors.","url":"https://docs.airbyte.com/connectors"}}]}`))
	})
	mux.HandleFunc("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt      string  `json:"prompt"`
			Temperature float64 `json:"temperature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b.prompts = append(b.prompts, req.Prompt)
		b.temps = append(b.temps, req.Temperature)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"text":"Airbyte supports over 300 connectors.","index":0}]}`))
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	data := fmt.Sprintf(`provider:
  type: openai
  openai:
    base_url: %s/v1
vector_store:
  type: qdrant
  qdrant:
    url: %s
    collection: airbyte
`, baseURL, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRootCmd_Metadata(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "docqa", cmd.Use)
	assert.Contains(t, cmd.Long, "PINECONE_INDEX")
	for _, name := range []string{"config", "verbose", "plain"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "v", cmd.Flags().Lookup("verbose").Shorthand)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(new(bytes.Buffer))

	err := cmd.Execute()

	assert.Error(t, err)
}

func TestRootCmd_PlainSessionEndToEnd(t *testing.T) {
	backend := newFakeBackend(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfgPath := writeConfig(t, backend.srv.URL)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("What connectors does Airbyte support?\n"))
	cmd.SetArgs([]string{"--plain", "--config", cfgPath})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Airbyte supports 300+ connectors.")
	assert.Contains(t, backend.prompts[0], "Question: What connectors does Airbyte support?")
	assert.InDelta(t, 0, backend.temps[0], 1e-9)

	s := out.String()
	assert.Contains(t, s, "What do you want to know?")
	assert.Contains(t, s, "Airbyte supports over 300 connectors.")
	assert.Contains(t, s, "What else do you want to know?")
	assert.Contains(t, s, "Goodbye!")
}

func TestExecute_ErrorExitCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [oops"), 0o644))
	var stderr bytes.Buffer

	code := Execute(context.Background(), []string{"--plain", "--config", path}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to load config")
}

func TestLogPath(t *testing.T) {
	assert.Equal(t, tuiLogFile, logPath("", true))
	assert.Equal(t, "custom.log", logPath("custom.log", true))
	assert.Empty(t, logPath("", false))
	assert.Equal(t, "custom.log", logPath("custom.log", false))
}

func TestRootCmd_TUISessionKeepsLogsOffStderr(t *testing.T) {
	backend := newFakeBackend(t)
	cfgPath := writeConfig(t, backend.srv.URL)
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, append(data, []byte("ui:\n  mode: tui\n")...), 0o644))

	t.Chdir(t.TempDir())
	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	origStderr, origLogger := os.Stderr, slog.Default()
	os.Stderr = stderr
	t.Cleanup(func() {
		os.Stderr = origStderr
		slog.SetDefault(origLogger)
		stderr.Close()
	})

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("\x03"))
	cmd.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	slog.Warn("pinecone index lives in region \"us-east-1\"")

	assert.FileExists(t, tuiLogFile)
	written, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Empty(t, string(written))
	assert.Empty(t, backend.prompts)
}

func TestChooseTUI(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, chooseTUI("auto", false, &buf, &buf))
	assert.False(t, chooseTUI("tui", true, &buf, &buf))
	assert.True(t, chooseTUI("tui", false, &buf, &buf))
	assert.False(t, chooseTUI("plain", false, &buf, &buf))
}
