package keyword

import "testing"

func TestCompileRejectsUnknownGroup(t *testing.T) {
	_, err := Compile(map[string][]string{
		"fixed":  {"SLAM"},
		"mobile": {"typo"},
	})
	if err == nil {
		t.Fatal("expected error for unknown keyword group")
	}
}

func TestCompileAcceptsBothGroups(t *testing.T) {
	ps, err := Compile(map[string][]string{
		"fixed":    {"SLAM", "LiDAR"},
		"variable": {"deep learning"},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Two fixed, one variable plus its no-space variant.
	if ps.Len() != 4 {
		t.Errorf("got %d patterns, want 4", ps.Len())
	}
}

func TestVariableKeywordsMatchCaseInsensitively(t *testing.T) {
	ps, err := Compile(map[string][]string{"variable": {"deep learning"}})
	if err != nil {
		t.Fatal(err)
	}
	if !ps.MatchTitle("Deep Learning for Change Detection") {
		t.Error("expected case-insensitive match")
	}
}

func TestMultiWordVariableKeywordGetsNoSpaceVariant(t *testing.T) {
	ps, err := Compile(map[string][]string{"variable": {"remote sensing"}})
	if err != nil {
		t.Fatal(err)
	}
	if ps.Len() != 2 {
		t.Fatalf("got %d patterns, want keyword plus no-space variant", ps.Len())
	}
	if !ps.MatchTitle("Hyperspectral RemoteSensing Imagery") {
		t.Error("expected no-space variant to match")
	}
}

func TestFixedKeywordsMatchCaseSensitively(t *testing.T) {
	ps, err := Compile(map[string][]string{"fixed": {"SLAM"}})
	if err != nil {
		t.Fatal(err)
	}
	if ps.MatchTitle("grand slam statistics") {
		t.Error("fixed keyword matched lowercase text")
	}
	if !ps.MatchTitle("Visual SLAM with Event Cameras") {
		t.Error("fixed keyword did not match exact case")
	}
}

func TestCompileRequiresAtLeastOneKeyword(t *testing.T) {
	if _, err := Compile(map[string][]string{"fixed": nil}); err == nil {
		t.Error("expected error for empty keyword set")
	}
}
