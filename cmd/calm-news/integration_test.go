package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func upstreams(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api2u/homepage/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"news": [
			{"title": "Erste Meldung", "firstSentence": "Satz eins.", "type": "story"},
			{"title": "Zweite Meldung", "firstSentence": "Satz zwei.", "type": "story"},
			{"title": "Ein Video", "type": "video"}
		]}`))
	})
	mux.HandleFunc("/api2u/news/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"news": [{"title": "Hafenfest in Kiel", "firstSentence": "Viele Gäste.", "type": "story"}]}`))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": 12.4, "weathercode": 2}}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GITHUB_PAGES", "")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBriefIntegration(t *testing.T) {
	ts := upstreams(t)
	path := writeConfig(t, `
log_level: error
upstream:
  tagesschau_url: "`+ts.URL+`/api2u"
  open_meteo_url: "`+ts.URL+`/v1/forecast"
`)

	out, err := execute(t, "brief", "--config", path, "--city", "kiel")
	if err != nil {
		t.Fatalf("brief failed: %v", err)
	}

	for _, want := range []string{
		"Nachrichten für Kiel (Schleswig-Holstein)",
		"1. [Welt] Erste Meldung",
		"2. [Welt] Zweite Meldung",
		"3. [Aus Ihrer Region] Hafenfest in Kiel",
		"4. [Wetter] Das Wetter in Kiel",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Ein Video") {
		t.Error("Non-story entries must be filtered out")
	}
	if strings.Contains(out, "Beispielnachrichten") {
		t.Error("Live briefing should not carry the demo notice")
	}
}

func TestBriefHTMLIntegration(t *testing.T) {
	ts := upstreams(t)
	path := writeConfig(t, `
log_level: error
upstream:
  tagesschau_url: "`+ts.URL+`/api2u"
  open_meteo_url: "`+ts.URL+`/v1/forecast"
`)

	out, err := execute(t, "brief", "--config", path, "--city", "kiel", "--format", "html")
	if err != nil {
		t.Fatalf("brief failed: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("Expected an HTML page, got:\n%s", out)
	}
}

func TestBriefUpstreamDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	path := writeConfig(t, `
log_level: error
upstream:
  tagesschau_url: "`+ts.URL+`/api2u"
  open_meteo_url: "`+ts.URL+`/v1/forecast"
`)

	out, err := execute(t, "brief", "--config", path, "--city", "erfurt")
	if err != nil {
		t.Fatalf("brief failed: %v", err)
	}
	if !strings.Contains(out, "Beispielnachrichten") {
		t.Errorf("Expected demo notice, got:\n%s", out)
	}
	if !strings.Contains(out, "Das Wetter in Erfurt") {
		t.Errorf("Expected demo weather for Erfurt, got:\n%s", out)
	}
}

func TestBriefErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown city", []string{"brief", "--city", "atlantis"}, `unknown city "atlantis"`},
		{"unknown format", []string{"brief", "--format", "pdf"}, `unknown format "pdf"`},
		{"missing config", []string{"brief", "--config", "/nonexistent/config.yaml"}, "config: failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestListenPlainIntegration(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/news" || r.URL.Query().Get("city") != "bremen" {
			t.Errorf("Unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"news":[{"headline":"Stadtmusikanten feiern","summary":"Ein Fest auf dem Marktplatz.","type":"lokal"}],"isLive":true}`))
	}))
	defer api.Close()

	path := writeConfig(t, `
log_level: error
player:
  api_url: "`+api.URL+`"
  pause: 1ms
  words_per_minute: 60000
`)

	out, err := execute(t, "listen", "--plain", "--config", path, "--city", "bremen")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	for _, want := range []string{
		"Nachrichten für Bremen (Stimme: Anna (female))",
		"» Aus Ihrer Region: Stadtmusikanten feiern. Ein Fest auf dem Marktplatz.",
		"» Das waren die Nachrichten. Vielen Dank fürs Zuhören.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestListenStaticExportUsesDemo(t *testing.T) {
	path := writeConfig(t, `
log_level: error
static_export: true
player:
  api_url: "http://127.0.0.1:1"
  pause: 1ms
  words_per_minute: 60000
`)

	out, err := execute(t, "listen", "--plain", "--config", path, "--city", "mainz")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	if !strings.Contains(out, "» Guten Tag. Hier sind die Nachrichten. Bundesregierung beschließt neue Maßnahmen.") {
		t.Errorf("Expected demo narration, got:\n%s", out)
	}
	if !strings.Contains(out, "» Und nun zum Wetter: Das Wetter in Mainz.") {
		t.Errorf("Expected demo weather narration, got:\n%s", out)
	}
}

func TestCitiesCommand(t *testing.T) {
	out, err := execute(t, "cities")
	if err != nil {
		t.Fatalf("cities failed: %v", err)
	}
	if got := strings.Count(out, "\n"); got != 16 {
		t.Errorf("Expected 16 cities, got %d", got)
	}
	if !strings.Contains(out, "saarbruecken") || !strings.Contains(out, "Saarbrücken (Saarland)") {
		t.Errorf("Expected Saarbrücken in list, got:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "calm-news v"+Version) {
		t.Errorf("Unexpected version output: %q", out)
	}
}
