package main

import "testing"

func TestLayerList(t *testing.T) {
	var l layerList
	for _, arg := range []string{"0", "2, 3"} {
		if err := l.Set(arg); err != nil {
			t.Fatalf("Set(%q) error = %v", arg, err)
		}
	}
	if got := l.String(); got != "0,2,3" {
		t.Errorf("String() = %q, want %q", got, "0,2,3")
	}
	if err := l.Set("top"); err == nil {
		t.Error("Set(top) should fail")
	}
}
