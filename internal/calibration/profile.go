// Package calibration measures where Karatsuba multiplication starts to beat
// the schoolbook convolution on this machine and persists the result.
package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

// Profile stores the outcome of a calibration run together with the
// hardware it was measured on.
type Profile struct {
	// Hardware identification
	CPUModel  string      `json:"cpu_model"`
	Features  CPUFeatures `json:"cpu_features"`
	NumCPU    int         `json:"num_cpu"`
	GOARCH    string      `json:"goarch"`
	GOOS      string      `json:"goos"`
	GoVersion string      `json:"go_version"`

	// KaratsubaThreshold is the calibrated dispatch point in limbs.
	KaratsubaThreshold int `json:"karatsuba_threshold"`
	// Crossovers holds the micro-benchmark timings that led to it.
	Crossovers []Crossover `json:"crossovers,omitempty"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`
	ProfileVersion  int       `json:"profile_version"`
}

const (
	// CurrentProfileVersion is bumped on incompatible format changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is created in the user's home directory.
	DefaultProfileFileName = ".deepzoom_calibration.json"
)

// ErrInvalidProfile is returned for profiles that cannot be applied.
var ErrInvalidProfile = errors.New("calibration: invalid profile")

// GetDefaultProfilePath returns ~/.deepzoom_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile returns an empty profile describing the current machine.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:       cpuModel(),
		Features:       DetectCPUFeatures(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// LoadProfile reads a profile. An empty path selects the default location.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

// Save writes the profile as indented JSON with owner-only permissions.
func (p *Profile) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolvePath(path), data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was produced by this format version
// on matching hardware and holds a usable threshold.
func (p *Profile) IsValid() bool {
	if p == nil || p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.GOARCH != runtime.GOARCH || p.NumCPU != runtime.NumCPU() {
		return false
	}
	if p.Features != DetectCPUFeatures() {
		return false
	}
	return p.KaratsubaThreshold >= bigfixed.MinKaratsubaThreshold
}

// IsStale reports whether the profile is older than maxAge.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// Apply installs the profile's threshold with bigfixed.SetKaratsubaThreshold.
func (p *Profile) Apply() error {
	if !p.IsValid() {
		return ErrInvalidProfile
	}
	bigfixed.SetKaratsubaThreshold(p.KaratsubaThreshold)
	return nil
}

func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("Profile{CPU: %s, Features: %s, Karatsuba: %d limbs, Calibrated: %s}",
		p.CPUModel, p.Features, p.KaratsubaThreshold, p.CalibratedAt.Format(time.RFC3339))
}

// LoadOrCreateProfile loads the profile at path. When it is missing or was
// measured on other hardware a fresh profile is returned with false.
func LoadOrCreateProfile(path string) (*Profile, bool) {
	p, err := LoadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// ProfileExists reports whether a file exists at path.
func ProfileExists(path string) bool {
	_, err := os.Stat(resolvePath(path))
	return err == nil
}
