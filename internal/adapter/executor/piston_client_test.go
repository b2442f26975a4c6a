package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pywhiz/internal/config"
	"pywhiz/internal/domain"
	"pywhiz/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(url string, timeout time.Duration) *PistonClient {
	return NewPistonClient(config.ExecutorConfig{
		URL:           url,
		Language:      "python",
		Version:       "3.10.0",
		Timeout:       timeout,
		MaxConcurrent: 2,
	})
}

func writeRun(w http.ResponseWriter, stdout, stderr string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"run": map[string]interface{}{"stdout": stdout, "stderr": stderr, "code": 0, "signal": nil},
	})
}

func TestPistonClient_Execute_Success(t *testing.T) {
	var got pistonRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeRun(w, "Hello, Alice\n", "")
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	result, err := client.Execute(context.Background(), domain.ExecutionRequest{
		SourceCode: "name = input()\nprint(f'Hello, {name}')",
		StdinLines: []string{"Alice", "30"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello, Alice\n", result.Stdout)
	assert.False(t, result.InputRequired)
	assert.False(t, result.TimedOut)

	assert.Equal(t, "python", got.Language)
	assert.Equal(t, "3.10.0", got.Version)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "main.py", got.Files[0].Name)
	assert.Equal(t, "Alice\n30", got.Stdin)
}

func TestPistonClient_Execute_InputRequired(t *testing.T) {
	for _, stderr := range []string{
		"Traceback (most recent call last):\n  File \"main.py\", line 1\nEOFError: EOF when reading a line",
		"Program is WAITING FOR INPUT",
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeRun(w, "Enter your name: ", stderr)
		}))

		result, err := newTestClient(server.URL, time.Second).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "input()"})
		server.Close()

		require.NoError(t, err)
		assert.True(t, result.InputRequired)
		assert.Equal(t, "Enter your name: ", result.Stdout)
	}
}

func TestPistonClient_Execute_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"python-9.9 runtime is unknown"}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL, time.Second).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "print(1)"})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeExecutionService))
	assert.Contains(t, err.Error(), "runtime is unknown")
}

func TestPistonClient_Execute_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	result, err := newTestClient(server.URL, 50*time.Millisecond).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "while True: pass"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeExecutionTimeout))
	assert.False(t, domain.HasCode(err, domain.CodeExecutionService))
	if result != nil {
		assert.True(t, result.TimedOut)
		assert.Empty(t, result.Stdout)
	}
}

func TestPistonClient_Execute_SandboxKill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"run":{"stdout":"","stderr":"","code":null,"signal":"SIGKILL"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "while True: pass"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeExecutionTimeout))
}

func TestPistonClient_Execute_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, time.Second).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "print(1)"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeExecutionService))
}

func TestPistonClient_Execute_RejectsEmptySource(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Execute(context.Background(), domain.ExecutionRequest{SourceCode: "  \n\t"})

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, 0, calls)
}

func TestNewPistonClient_ClampsTimeout(t *testing.T) {
	client := newTestClient("http://sandbox", time.Minute)
	assert.Equal(t, config.MaxExecutionTimeout, client.cfg.Timeout)

	client = newTestClient("http://sandbox", 0)
	assert.Equal(t, config.MaxExecutionTimeout, client.cfg.Timeout)
}
