package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "p.json")
	p := NewProfile()
	p.KaratsubaThreshold = 24
	p.Crossovers = []Crossover{{Limbs: 16, Schoolbook: time.Millisecond, Karatsuba: 2 * time.Millisecond}}
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}
	if !ProfileExists(path) {
		t.Fatal("ProfileExists = false after Save")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); runtime.GOOS != "windows" && perm != 0600 {
		t.Errorf("profile mode %v, want 0600", perm)
	}

	got, err := LoadProfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.KaratsubaThreshold != 24 || got.GOARCH != runtime.GOARCH || got.Features != p.Features {
		t.Errorf("loaded %s", got)
	}
	if len(got.Crossovers) != 1 || got.Crossovers[0] != p.Crossovers[0] {
		t.Errorf("crossovers = %+v", got.Crossovers)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := LoadProfile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing profile loaded")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadProfile(bad) = %v", err)
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   bool
	}{
		{"current machine", func(*Profile) {}, true},
		{"old version", func(p *Profile) { p.ProfileVersion = 0 }, false},
		{"other arch", func(p *Profile) { p.GOARCH = "vax" }, false},
		{"other core count", func(p *Profile) { p.NumCPU++ }, false},
		{"other features", func(p *Profile) { p.Features.AVX2 = !p.Features.AVX2 }, false},
		{"threshold too small", func(p *Profile) { p.KaratsubaThreshold = bigfixed.MinKaratsubaThreshold - 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProfile()
			p.KaratsubaThreshold = bigfixed.DefaultKaratsubaThreshold
			tt.mutate(p)
			if got := p.IsValid(); got != tt.want {
				t.Errorf("IsValid = %v, want %v", got, tt.want)
			}
		})
	}
	var nilProfile *Profile
	if nilProfile.IsValid() {
		t.Error("nil profile valid")
	}
}

func TestProfileApplyInvalid(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	if err := p.Apply(); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Apply without threshold = %v", err)
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile stale")
	}
	p.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !p.IsStale(time.Hour) {
		t.Error("old profile not stale")
	}
	var nilProfile *Profile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile not stale")
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p, loaded := LoadOrCreateProfile(filepath.Join(dir, "none.json"))
	if loaded || p == nil || p.ProfileVersion != CurrentProfileVersion {
		t.Errorf("missing profile: %s, %v", p, loaded)
	}

	path := filepath.Join(dir, "p.json")
	saved := NewProfile()
	saved.KaratsubaThreshold = 32
	if err := saved.Save(path); err != nil {
		t.Fatal(err)
	}
	p, loaded = LoadOrCreateProfile(path)
	if !loaded || p.KaratsubaThreshold != 32 {
		t.Errorf("saved profile: %s, %v", p, loaded)
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	var nilProfile *Profile
	if nilProfile.String() != "<nil profile>" {
		t.Errorf("nil String = %q", nilProfile.String())
	}
	p := NewProfile()
	p.KaratsubaThreshold = 16
	if s := p.String(); !strings.Contains(s, "Karatsuba: 16 limbs") {
		t.Errorf("String = %q", s)
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if got := GetDefaultProfilePath(); filepath.Base(got) != DefaultProfileFileName {
		t.Errorf("default path %q", got)
	}
}

func TestCPUFeaturesString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		f    CPUFeatures
		want string
	}{
		{CPUFeatures{}, "none"},
		{CPUFeatures{AVX2: true, BMI2: true}, "AVX2 BMI2"},
		{CPUFeatures{AVX512: true, AVX2: true, ADX: true}, "AVX-512 AVX2 ADX"},
		{CPUFeatures{ASIMD: true}, "ASIMD"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
