package mail

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/voyage/server/internal/model"
)

func TestTemplates_render(t *testing.T) {
	var body bytes.Buffer

	if err := otpTmpl.Execute(&body, struct{ Code string }{"1234"}); err != nil {
		t.Fatalf("render otp template: %v", err)
	}
	if !strings.Contains(body.String(), "1234") {
		t.Error("otp mail should contain the code")
	}

	body.Reset()
	if err := resetTmpl.Execute(&body, struct{ Code string }{"654321"}); err != nil {
		t.Fatalf("render reset template: %v", err)
	}
	if !strings.Contains(body.String(), "654321") {
		t.Error("reset mail should contain the code")
	}

	body.Reset()
	booking := model.Request{
		ClientName:    "Ada",
		PackageName:   "Bali Escape",
		TravelDate:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalAmount:   1999.98,
		TransactionID: "tx-123",
	}
	if err := bookingTmpl.Execute(&body, booking); err != nil {
		t.Fatalf("render booking template: %v", err)
	}
	got := body.String()
	for _, want := range []string{"Ada", "Bali Escape", "01 Oct 2026", "1999.98", "tx-123"} {
		if !strings.Contains(got, want) {
			t.Errorf("booking mail should contain %q", want)
		}
	}

	body.Reset()
	err := responseTmpl.Execute(&body, struct {
		Name     string
		Response string
	}{"Visitor", "Next tour starts in October."})
	if err != nil {
		t.Fatalf("render response template: %v", err)
	}
	if !strings.Contains(body.String(), "Next tour starts in October.") {
		t.Error("response mail should contain the reply text")
	}
}

func TestTemplates_escapeHTML(t *testing.T) {
	var body bytes.Buffer
	err := responseTmpl.Execute(&body, struct {
		Name     string
		Response string
	}{"<script>x</script>", "reply"})
	if err != nil {
		t.Fatalf("render response template: %v", err)
	}
	if strings.Contains(body.String(), "<script>") {
		t.Error("user-supplied values must be HTML-escaped")
	}
}
