package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTrackingTestServer(recorder *fakeRecorder) *echo.Echo {
	h := &TrackingHandler{service: recorder, logger: testLogger()}
	e := echo.New()
	h.Register(e)
	return e
}

func postInteraction(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/widget-interaction", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrackingRecordAccepted(t *testing.T) {
	t.Parallel()

	recorder := newFakeRecorder()
	e := newTrackingTestServer(recorder)

	rec := postInteraction(e, `{"apiKey":"wgt_abc","platform":"whatsapp","action":"widget_click"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	select {
	case ev := <-recorder.events:
		if ev.APIKey != "wgt_abc" || ev.Action != "widget_click" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was never recorded")
	}
}

func TestTrackingRecordRejectsIncompleteEvent(t *testing.T) {
	t.Parallel()

	e := newTrackingTestServer(newFakeRecorder())
	for _, body := range []string{
		`{"platform":"whatsapp","action":"widget_click"}`,
		`{"apiKey":"wgt_abc","platform":"whatsapp"}`,
		`not json`,
	} {
		rec := postInteraction(e, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
