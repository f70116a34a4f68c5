package playground

import (
	"fmt"
	"html"
	"sync"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqltutor/internal/render"
	"github.com/leapstack-labs/sqltutor/internal/session"
	"github.com/leapstack-labs/sqltutor/internal/tutor"
)

// sseSink pushes display updates into page regions over one SSE response.
type sseSink struct {
	sse *datastar.ServerSentEventGenerator
}

func newSSESink(sse *datastar.ServerSentEventGenerator) *sseSink {
	return &sseSink{sse: sse}
}

func (s *sseSink) SetStatus(status session.Status) {
	class := "status"
	if c := render.StatusClass(status); c != "" {
		class += " " + c
	}
	_ = s.sse.PatchElements(fmt.Sprintf(
		`<span id="db-status" class="%s">%s</span>`,
		class, html.EscapeString(render.StatusLabel(status)),
	))
}

func (s *sseSink) ShowResult(fragment string) {
	_ = s.sse.PatchElements(`<div id="query-output">` + fragment + `</div>`)
}

func (s *sseSink) ShowError(text string) {
	_ = s.sse.PatchElements(`<div id="query-output">` + render.Error(text) + `</div>`)
}

func (s *sseSink) ShowNotice(text string) {
	_ = s.sse.PatchElements(`<div id="notice">` + render.Notice(text) + `</div>`)
}

// swapSink is the sandbox's permanent sink. Each request binds its own SSE
// sink for the duration of the handler; updates between requests are dropped.
type swapSink struct {
	mu  sync.Mutex
	cur tutor.DisplaySink
}

func (s *swapSink) bind(d tutor.DisplaySink) {
	s.mu.Lock()
	s.cur = d
	s.mu.Unlock()
}

func (s *swapSink) release() {
	s.bind(nil)
}

func (s *swapSink) current() tutor.DisplaySink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *swapSink) SetStatus(status session.Status) {
	if d := s.current(); d != nil {
		d.SetStatus(status)
	}
}

func (s *swapSink) ShowResult(fragment string) {
	if d := s.current(); d != nil {
		d.ShowResult(fragment)
	}
}

func (s *swapSink) ShowError(text string) {
	if d := s.current(); d != nil {
		d.ShowError(text)
	}
}

func (s *swapSink) ShowNotice(text string) {
	if d := s.current(); d != nil {
		d.ShowNotice(text)
	}
}
