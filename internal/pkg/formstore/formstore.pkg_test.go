package formstore

import "testing"

type draft struct {
	Name string `json:"name"`
	Step int    `json:"step"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	saved := draft{Name: "Ana", Step: 2}
	if err := store.Save("d1", saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var loaded draft
	found, err := store.Load("d1", &loaded)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !found {
		t.Fatal("expected draft to exist")
	}
	if loaded != saved {
		t.Fatalf("round trip mismatch: saved %+v, loaded %+v", saved, loaded)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()

	_ = store.Save("d1", draft{Name: "Ana", Step: 1})
	_ = store.Save("d1", draft{Name: "Ana", Step: 3})

	var loaded draft
	if found, _ := store.Load("d1", &loaded); !found {
		t.Fatal("expected draft to exist")
	}
	if loaded.Step != 3 {
		t.Fatalf("expected latest write, got step %d", loaded.Step)
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()

	_ = store.Save("d1", draft{Name: "Ana"})
	if err := store.Clear("d1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	var loaded draft
	found, err := store.Load("d1", &loaded)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if found {
		t.Fatal("expected draft to be gone after clear")
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()

	var loaded draft
	found, err := store.Load("nope", &loaded)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if found {
		t.Fatal("missing draft must report not found")
	}
}
