package history

import "testing"

func TestMemoryStore_AppendAndGet(t *testing.T) {
	s := NewMemoryStore()
	s.Append(&Record{ID: "a", Original: "hello", IsTranslating: true})

	rec := s.Get("a")
	if rec == nil {
		t.Fatal("Expected record 'a'")
	}
	if rec.Original != "hello" {
		t.Errorf("Expected original 'hello', got '%s'", rec.Original)
	}
	if !rec.IsTranslating {
		t.Error("Expected IsTranslating true")
	}

	if got := s.Get("missing"); got != nil {
		t.Errorf("Expected nil for missing id, got %+v", got)
	}
}

func TestMemoryStore_AllPreservesOrder(t *testing.T) {
	s := NewMemoryStore()
	s.Append(&Record{ID: "a"})
	s.Append(&Record{ID: "b"})
	s.Append(&Record{ID: "c"})

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Errorf("Record %d: expected id '%s', got '%s'", i, want, all[i].ID)
		}
	}
}

func TestMemoryStore_Update(t *testing.T) {
	s := NewMemoryStore()
	s.Append(&Record{ID: "a", IsTranslating: true})

	s.Update("a", func(r *Record) {
		r.Translated = "안녕하세요"
		r.IsTranslating = false
	})

	rec := s.Get("a")
	if rec.Translated != "안녕하세요" {
		t.Errorf("Expected translated text, got '%s'", rec.Translated)
	}
	if rec.IsTranslating {
		t.Error("Expected IsTranslating false after update")
	}

	// Updating a missing id is a no-op
	s.Update("missing", func(r *Record) { t.Error("fn must not run for missing id") })
}
