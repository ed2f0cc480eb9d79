package history

import (
	"context"
	"testing"
)

func TestAddAndList(t *testing.T) {
	// The database opens once per process, under $HOME.
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()

	id1, err := Add(ctx, Entry{
		VideoID:   "dQw4w9WgXcQ",
		URL:       "https://youtu.be/dQw4w9WgXcQ",
		Title:     "First Video",
		NotionURL: "https://notion.so/first",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := Add(ctx, Entry{
		URL:        "https://example.com/post",
		Title:      "An Article",
		SourceType: "article",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not monotonic: %d then %d", id1, id2)
	}

	entries, err := List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Title != "An Article" || entries[1].Title != "First Video" {
		t.Errorf("order wrong: %q, %q", entries[0].Title, entries[1].Title)
	}
	if entries[0].SourceType != "article" {
		t.Errorf("source type = %q, want article", entries[0].SourceType)
	}
	// Default source type applied when omitted.
	if entries[1].SourceType != "youtube" {
		t.Errorf("default source type = %q, want youtube", entries[1].SourceType)
	}
	if entries[1].VideoID != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", entries[1].VideoID)
	}
	if entries[0].VideoID != "" {
		t.Errorf("article entry has video id %q", entries[0].VideoID)
	}
	if entries[0].CreatedAt == "" {
		t.Error("created_at not recorded")
	}
}

func TestListLimitClamped(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()
	if _, err := List(ctx, -1); err != nil {
		t.Fatalf("List with negative limit: %v", err)
	}
	if _, err := List(ctx, 10_000); err != nil {
		t.Fatalf("List with oversized limit: %v", err)
	}
}
