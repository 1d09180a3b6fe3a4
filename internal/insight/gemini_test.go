package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"absviz/internal/absfn"
)

type generateBody struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

// geminiServer answers every generateContent call with status and body, and
// records the last request it saw.
func geminiServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *generateBody) {
	t.Helper()
	var (
		gotReq  http.Request
		gotBody generateBody
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = *r
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotReq, &gotBody
}

func testGenerator(t *testing.T, baseURL string) *GeminiGenerator {
	t.Helper()
	gen, err := NewGeminiGeneratorWithConfig(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	require.NoError(t, err)
	return gen
}

func geminiOptions() Options {
	opts := DefaultOptions()
	opts.Model = "gemini-test"
	opts.Temperature = 0.5
	opts.MaxOutputTokens = 64
	return opts
}

func TestGeminiGeneratorSendsRequest(t *testing.T) {
	srv, req, body := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"The **vertex** is at (3, -1)."}]}}]}`)

	params := absfn.Params{A: -2, H: 3, K: -1}
	text, err := FetchOnce(context.Background(), testGenerator(t, srv.URL), geminiOptions(), params)
	require.NoError(t, err)
	assert.Equal(t, "The vertex is at (3, -1).", text)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.True(t, strings.HasSuffix(req.URL.Path, "models/gemini-test:generateContent"), req.URL.Path)
	assert.Equal(t, "test-key", req.Header.Get("x-goog-api-key"))

	require.Len(t, body.Contents, 1)
	require.Len(t, body.Contents[0].Parts, 1)
	assert.Equal(t, BuildPrompt(params), body.Contents[0].Parts[0].Text)
	assert.InDelta(t, 0.5, body.GenerationConfig.Temperature, 1e-6)
	assert.Equal(t, 64, body.GenerationConfig.MaxOutputTokens)
}

func TestGeminiGeneratorEmptyReply(t *testing.T) {
	srv, _, _ := geminiServer(t, http.StatusOK, `{}`)

	text, err := FetchOnce(context.Background(), testGenerator(t, srv.URL), geminiOptions(), absfn.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, EmptyText, text)
}

func TestGeminiGeneratorServerError(t *testing.T) {
	srv, _, _ := geminiServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)

	text, err := FetchOnce(context.Background(), testGenerator(t, srv.URL), geminiOptions(), absfn.DefaultParams())
	require.Error(t, err)
	assert.Equal(t, FailureText, text)
}

func TestNewGeminiGeneratorWithoutKey(t *testing.T) {
	_, err := NewGeminiGeneratorWithConfig(context.Background(), &genai.ClientConfig{APIKey: " "})
	assert.ErrorIs(t, err, ErrNotConfigured)

	gen, err := NewGenerator(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, gen)
}
