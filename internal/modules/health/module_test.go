package health

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"futures_bot/internal/modules/health/service"
)

func TestMux_Readiness(t *testing.T) {
	st := service.NewState()
	srv := httptest.NewServer(NewMux(st))
	defer srv.Close()

	get := func(path string) int {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if code := get("/livez"); code != 200 {
		t.Fatalf("/livez = %d", code)
	}
	if code := get("/readyz"); code != 503 {
		t.Fatalf("/readyz до старта = %d, want 503", code)
	}
	st.SetReady(true)
	if code := get("/readyz"); code != 200 {
		t.Fatalf("/readyz после старта = %d", code)
	}
}

func TestMux_Healthz(t *testing.T) {
	st := service.NewState()
	st.SetReady(true)
	st.SetPaused(true)
	st.TouchCycle(time.Now())

	srv := httptest.NewServer(NewMux(st))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(raw)
	for _, want := range []string{`"ready":true`, `"paused":true`} {
		if !strings.Contains(body, want) {
			t.Fatalf("healthz body %q, want %q", body, want)
		}
	}
}

func TestMux_Metrics(t *testing.T) {
	srv := httptest.NewServer(NewMux(service.NewState()))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("/metrics = %d", resp.StatusCode)
	}
}
