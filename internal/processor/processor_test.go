package processor

import (
	"testing"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
)

func TestSimpleProcessorDeduplicateByTitleFirstWins(t *testing.T) {
	p := NewSimpleProcessor()
	now := time.Now()

	items := []collector.NewsItem{
		{Title: "Paredão", Link: "https://a.test/1", Source: "https://a.test/", ScrapedAt: now},
		{Title: "Líder", Link: "https://a.test/2", Source: "https://a.test/", ScrapedAt: now},
		{Title: "Paredão", Link: "https://b.test/9", Source: "https://b.test/", ScrapedAt: now},
	}

	out := p.Process(items)
	if len(out) != 2 {
		t.Fatalf("expected 2 items after dedupe, got %d", len(out))
	}
	if out[0].Title != "Paredão" || out[0].Source != "https://a.test/" {
		t.Fatalf("first occurrence should win, got %+v", out[0])
	}

	seen := map[string]bool{}
	for _, it := range out {
		if seen[it.Title] {
			t.Fatalf("duplicate title %q in output", it.Title)
		}
		seen[it.Title] = true
	}
}

func TestSimpleProcessorDropsMissingTitleOrLink(t *testing.T) {
	p := NewSimpleProcessor()

	out := p.Process([]collector.NewsItem{
		{Title: "", Link: "https://a.test/1"},
		{Title: "sem link", Link: "  "},
		{Title: "ok", Link: "https://a.test/2"},
	})
	if len(out) != 1 || out[0].Title != "ok" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestSimpleProcessorSortsByScrapedAtDesc(t *testing.T) {
	p := NewSimpleProcessor()
	base := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	out := p.Process([]collector.NewsItem{
		{Title: "old", Link: "l1", ScrapedAt: base.Add(-time.Hour)},
		{Title: "new-a", Link: "l2", ScrapedAt: base},
		{Title: "new-b", Link: "l3", ScrapedAt: base},
		{Title: "mid", Link: "l4", ScrapedAt: base.Add(-time.Minute)},
	})

	want := []string{"new-a", "new-b", "mid", "old"}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, title := range want {
		if out[i].Title != title {
			t.Fatalf("out[%d].Title = %q, want %q", i, out[i].Title, title)
		}
	}
}
