package youtube

import "testing"

func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"standard watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"no www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare id with underscore and dash", "a_b-c_d-e_f", "a_b-c_d-e_f", true},
		{"id too short", "dQw4w9WgXc", "", false},
		{"id too long standalone", "dQw4w9WgXcQQ", "", false},
		{"not a video url", "https://www.youtube.com/channel/UC12345678901", "", false},
		{"unrelated url", "https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveVideoID(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveVideoID(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolveVideoIDDeterministic(t *testing.T) {
	// Same input always yields the same ID, whichever pattern matched first.
	raw := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	first, ok := ResolveVideoID(raw)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		got, _ := ResolveVideoID(raw)
		if got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}
