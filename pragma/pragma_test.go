package pragma

import "testing"

func TestParseActivationLine(t *testing.T) {
	act, err := Parse("#pragma Cedro 1.0 defer backstitch")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if act.Major != 1 || act.Minor != 0 {
		t.Fatalf("version = %d.%d, want 1.0", act.Major, act.Minor)
	}
	if !act.SupportedVersion() {
		t.Fatal("expected 1.0 to be a supported version")
	}
	got := act.EnabledFeatures()
	want := []string{"defer", "backstitch"}
	if len(got) != len(want) {
		t.Fatalf("features = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("features[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnsupportedMajorVersion(t *testing.T) {
	act, err := Parse("#pragma Cedro 2.0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if act.SupportedVersion() {
		t.Fatal("major version 2 should not be supported by this build")
	}
}

func TestUnknownFeatureWordIsIgnoredNotRejected(t *testing.T) {
	act, err := Parse("#pragma Cedro 1.0 futurefeature defer")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !act.HasFeature("futurefeature") {
		t.Fatal("HasFeature should see the raw word even if unknown")
	}
	enabled := act.EnabledFeatures()
	if len(enabled) != 1 || enabled[0] != "defer" {
		t.Fatalf("EnabledFeatures = %v, want [defer]", enabled)
	}
}

func TestDuplicateFeatureWordsCollapse(t *testing.T) {
	act, err := Parse("#pragma Cedro 1.0 defer defer self")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := act.EnabledFeatures()
	want := []string{"defer", "self"}
	if len(got) != len(want) {
		t.Fatalf("features = %v, want %v", got, want)
	}
}
