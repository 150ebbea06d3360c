package harvest

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"news-harvester-api/core/interfaces"
)

// fakeSession scripts a listing where each click reveals the next round of links
type fakeSession struct {
	rounds      [][]string
	round       int
	hasControl  bool
	navErr      error
	clickErr    error
	collectErr  error
	closed      bool
	clicks      int
	overlayHits int
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	return f.navErr
}

func (f *fakeSession) CollectHrefs(ctx context.Context, selector string) ([]string, error) {
	if f.collectErr != nil {
		return nil, f.collectErr
	}
	return f.current(), nil
}

func (f *fakeSession) CountMatches(ctx context.Context, selector string) (int, error) {
	return len(f.current()), nil
}

func (f *fakeSession) Exists(ctx context.Context, selector string) (bool, error) {
	if strings.Contains(selector, "Показать") {
		return f.hasControl, nil
	}
	// overlay candidates
	return false, nil
}

func (f *fakeSession) Click(ctx context.Context, selector string, timeout time.Duration) error {
	if !strings.Contains(selector, "Показать") {
		f.overlayHits++
		return nil
	}
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	if f.round < len(f.rounds)-1 {
		f.round++
	}
	return nil
}

func (f *fakeSession) ScrollIntoView(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (f *fakeSession) ScrollToBottom(ctx context.Context) error { return nil }
func (f *fakeSession) PressEscape(ctx context.Context) error    { return nil }

func (f *fakeSession) WaitForCondition(ctx context.Context, expr string, timeout time.Duration) error {
	return nil
}

func (f *fakeSession) Sleep(ctx context.Context, d time.Duration) error { return nil }

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSession) current() []string {
	if f.round >= len(f.rounds) {
		return nil
	}
	return f.rounds[f.round]
}

var _ interfaces.BrowserSession = (*fakeSession)(nil)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

func testConfig(target int) Config {
	cfg := DefaultConfig()
	cfg.TargetCount = target
	cfg.ControlWait = time.Millisecond
	cfg.ChangeWait = time.Millisecond
	cfg.SettleDelay = 0
	return cfg
}

func TestHarvest_OneExpansionRound(t *testing.T) {
	// Round 0 has 3 unique links, round 1 adds 3 more with 1 overlap;
	// target 5 is reached after one click.
	session := &fakeSession{
		hasControl: true,
		rounds: [][]string{
			{"https://s.ru/online/news/1", "https://s.ru/online/news/2", "https://s.ru/online/news/3"},
			{
				"https://s.ru/online/news/1", "https://s.ru/online/news/2", "https://s.ru/online/news/3",
				"https://s.ru/online/news/3?from=block", "https://s.ru/online/news/4",
				"https://s.ru/online/news/5", "https://s.ru/online/news/6",
			},
		},
	}

	h := NewHarvester(testConfig(5), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}

	expected := []string{
		"https://s.ru/online/news/1",
		"https://s.ru/online/news/2",
		"https://s.ru/online/news/3",
		"https://s.ru/online/news/4",
		"https://s.ru/online/news/5",
	}
	if len(got) != len(expected) {
		t.Fatalf("got %d locations, want %d: %v", len(got), len(expected), got)
	}
	for i, loc := range expected {
		if got[i] != loc {
			t.Errorf("got[%d] = %q, want %q", i, got[i], loc)
		}
	}
	if !session.closed {
		t.Error("session should be closed after traversal")
	}
}

func TestHarvest_NoDuplicates(t *testing.T) {
	session := &fakeSession{
		hasControl: true,
		rounds: [][]string{
			{"https://s.ru/online/news/1", "https://s.ru/online/news/1?a=b", "https://s.ru/online/news/2"},
			{"https://s.ru/online/news/2", "https://s.ru/online/news/3", "https://s.ru/online/news/1"},
			{"https://s.ru/online/news/3", "https://s.ru/online/news/4"},
		},
	}

	h := NewHarvester(testConfig(100), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}

	seen := make(map[string]struct{})
	for _, loc := range got {
		if _, ok := seen[loc]; ok {
			t.Errorf("duplicate location in result: %q", loc)
		}
		seen[loc] = struct{}{}
	}
	if len(seen) != len(got) {
		t.Errorf("set size %d != sequence size %d", len(seen), len(got))
	}
}

func TestHarvest_NeverExceedsTarget(t *testing.T) {
	session := &fakeSession{
		hasControl: false,
		rounds: [][]string{
			{
				"https://s.ru/online/news/1", "https://s.ru/online/news/2",
				"https://s.ru/online/news/3", "https://s.ru/online/news/4",
			},
		},
	}

	h := NewHarvester(testConfig(2), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d locations, want 2", len(got))
	}
}

func TestHarvest_ControlAbsentReturnsPartial(t *testing.T) {
	session := &fakeSession{
		hasControl: false,
		rounds:     [][]string{{"https://s.ru/online/news/1"}},
	}

	h := NewHarvester(testConfig(10), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("partial result should not be an error, got: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d locations, want 1", len(got))
	}
	if session.clicks != 0 {
		t.Errorf("no clicks expected without a control, got %d", session.clicks)
	}
}

func TestHarvest_ClickFailureEndsTraversal(t *testing.T) {
	session := &fakeSession{
		hasControl: true,
		clickErr:   errors.New("not actionable"),
		rounds:     [][]string{{"https://s.ru/online/news/1", "https://s.ru/online/news/2"}},
	}

	h := NewHarvester(testConfig(10), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("click failure should end traversal gracefully, got: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d locations, want 2", len(got))
	}
}

func TestHarvest_StallLimitStopsLoop(t *testing.T) {
	// The control stays present but clicks never reveal anything new.
	session := &fakeSession{
		hasControl: true,
		rounds:     [][]string{{"https://s.ru/online/news/1"}},
	}

	cfg := testConfig(10)
	cfg.StallLimit = 3
	h := NewHarvester(cfg, nopLogger{})

	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d locations, want 1", len(got))
	}
	if session.clicks != 3 {
		t.Errorf("expected exactly StallLimit clicks, got %d", session.clicks)
	}
}

func TestHarvest_ProgressResetsStallCount(t *testing.T) {
	// Rounds: stall, stall, progress, then stalls until the limit. The
	// reset after progress means total clicks exceed the stall limit.
	session := &fakeSession{
		hasControl: true,
		rounds: [][]string{
			{"https://s.ru/online/news/1"},
			{"https://s.ru/online/news/1"},
			{"https://s.ru/online/news/1"},
			{"https://s.ru/online/news/1", "https://s.ru/online/news/2"},
			{"https://s.ru/online/news/1", "https://s.ru/online/news/2"},
		},
	}

	cfg := testConfig(10)
	cfg.StallLimit = 3
	h := NewHarvester(cfg, nopLogger{})

	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d locations, want 2", len(got))
	}
	// 2 stalled clicks, 1 progressing click, then 3 more stalls
	if session.clicks != 6 {
		t.Errorf("expected 6 clicks, got %d", session.clicks)
	}
}

func TestHarvest_ClickCeilingStopsLoop(t *testing.T) {
	// Every round adds a new link so stalls never trigger.
	rounds := make([][]string, 50)
	links := []string{}
	for i := range rounds {
		links = append(links, "https://s.ru/online/news/"+strconv.Itoa(i))
		rounds[i] = append([]string(nil), links...)
	}
	session := &fakeSession{hasControl: true, rounds: rounds}

	cfg := testConfig(1000)
	cfg.MaxClicks = 5
	h := NewHarvester(cfg, nopLogger{})

	_, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if session.clicks != 5 {
		t.Errorf("expected MaxClicks clicks, got %d", session.clicks)
	}
}

func TestHarvest_SkipsBlankHrefs(t *testing.T) {
	session := &fakeSession{
		hasControl: false,
		rounds:     [][]string{{"", "   ", "https://s.ru/online/news/1"}},
	}

	h := NewHarvester(testConfig(10), nopLogger{})
	got, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("blank hrefs should be dropped, got %v", got)
	}
}

func TestHarvest_NavigateErrorClosesSession(t *testing.T) {
	session := &fakeSession{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	h := NewHarvester(testConfig(10), nopLogger{})
	_, err := h.Harvest(context.Background(), session, "https://s.ru/online/")
	if err == nil {
		t.Fatal("expected an error from navigation failure")
	}
	if !session.closed {
		t.Error("session must be closed on every exit path")
	}
}
