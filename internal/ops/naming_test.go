package ops

import (
	"path/filepath"
	"testing"
)

func TestCSVName(t *testing.T) {
	cases := []struct {
		bagPath string
		channel string
		outDir  string
		want    string
	}{
		{"/data/run1.bag", "/imu/raw", "", "/data/run1.imu.raw.csv"},
		{"/data/run1.bag", "odom", "", "/data/run1.odom.csv"},
		{"/data/run1.bag", "/gps", "/out", "/out/run1.gps.csv"},
		{"run1.bag", "//double", "", "run1.double.csv"},
	}
	for _, c := range cases {
		got := CSVName(c.bagPath, c.channel, c.outDir)
		if got != filepath.FromSlash(c.want) {
			t.Fatalf("CSVName(%q,%q,%q)=%q want %q", c.bagPath, c.channel, c.outDir, got, c.want)
		}
	}
}

func TestFilteredName(t *testing.T) {
	got := FilteredName("/data/run1.bag", "", ".filtered")
	if got != filepath.FromSlash("/data/run1.filtered.bag") {
		t.Fatalf("got %q", got)
	}
	got = FilteredName("/data/run1.bag", "/out", ".picked")
	if got != filepath.FromSlash("/out/run1.picked.bag") {
		t.Fatalf("got %q", got)
	}
}
