package imt

import "testing"

func TestParseIMTRoundTripsWithString(t *testing.T) {
	for i := PGA; i < IMT(numIMT); i++ {
		got, err := ParseIMT(i.String())
		if err != nil {
			t.Fatalf("ParseIMT(%q) failed: %v", i.String(), err)
		}
		if got != i {
			t.Fatalf("ParseIMT(%q) = %v, want %v", i.String(), got, i)
		}
	}
}

func TestParseIMTRejectsUnknown(t *testing.T) {
	if _, err := ParseIMT("NOT_AN_IMT"); err == nil {
		t.Fatal("expected an error for an unrecognized imt name")
	}
}
