package utils

import "testing"

func TestDatasetKeyIgnoresFilterOrder(t *testing.T) {
	a := DatasetKey("csv", []string{"Sales", "Ops"})
	b := DatasetKey("csv", []string{"Ops", "Sales"})
	if a != b {
		t.Fatalf("expected equal keys, got %s and %s", a, b)
	}
}

func TestDatasetKeyDistinguishesInputs(t *testing.T) {
	keys := map[string]bool{
		DatasetKey("csv", nil):                  true,
		DatasetKey("csv2", nil):                 true,
		DatasetKey("csv", []string{"Sales"}):     true,
		DatasetKey("csv", []string{"Sal", "es"}): true,
	}
	if len(keys) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", len(keys))
	}
}

func TestHashString(t *testing.T) {
	if got := HashString(""); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected sha256: %s", got)
	}
}
