package data

import (
	"testing"
)

func TestLoadVocabulary(t *testing.T) {
	vocab, err := Load()
	if err != nil {
		t.Fatalf("Failed to load vocabulary: %v", err)
	}

	t.Run("GetFirstNames", func(t *testing.T) {
		if len(vocab.GetFirstNames(true)) == 0 {
			t.Error("Expected male names, got none")
		}
		if len(vocab.GetFirstNames(false)) == 0 {
			t.Error("Expected female names, got none")
		}
	})

	t.Run("GetLastNames", func(t *testing.T) {
		if len(vocab.GetLastNames()) == 0 {
			t.Error("Expected last names, got none")
		}
	})

	t.Run("GetCities", func(t *testing.T) {
		cities, ok := vocab.GetCities("SP")
		if !ok {
			t.Fatal("Failed to find cities for SP")
		}
		found := false
		for _, c := range cities {
			if c.City == "São Paulo" {
				found = true
				if c.AreaCode != "11" {
					t.Errorf("Expected area code 11, got %s", c.AreaCode)
				}
			}
		}
		if !found {
			t.Error("Expected to find São Paulo in SP cities")
		}
	})

	t.Run("every city has codes", func(t *testing.T) {
		for _, c := range vocab.AllCities() {
			if len(c.AreaCode) != 2 {
				t.Errorf("%s: area code %q", c.City, c.AreaCode)
			}
			if len(c.PostalPrefix) != 2 {
				t.Errorf("%s: postal prefix %q", c.City, c.PostalPrefix)
			}
		}
	})

	t.Run("States", func(t *testing.T) {
		states := vocab.States()
		if len(states) < 10 {
			t.Errorf("Expected at least 10 states, got %d", len(states))
		}
		if states[0] != "SP" {
			t.Errorf("Expected first state SP, got %s", states[0])
		}
	})

	t.Run("PostalFormat", func(t *testing.T) {
		if vocab.PostalFormat() != "#####-###" {
			t.Errorf("Expected '#####-###', got '%s'", vocab.PostalFormat())
		}
	})

	t.Run("Streets and companies", func(t *testing.T) {
		if len(vocab.Streets.Districts) == 0 || len(vocab.Streets.Names) == 0 {
			t.Error("Expected street vocabulary")
		}
		if len(vocab.Companies.Names) == 0 || len(vocab.Companies.EmailDomains) == 0 {
			t.Error("Expected company vocabulary")
		}
	})
}

func TestLoadIsCached(t *testing.T) {
	a, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Expected Load to return the same instance")
	}
}
