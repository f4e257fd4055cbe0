package calibration

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures records the instruction set extensions that affect limb
// multiplication speed. A profile measured on a machine with different
// features is not reused.
type CPUFeatures struct {
	AVX2   bool `json:"avx2"`
	AVX512 bool `json:"avx512"`
	BMI2   bool `json:"bmi2"`
	ADX    bool `json:"adx"`
	ASIMD  bool `json:"asimd"`
}

// DetectCPUFeatures reads the current CPU's features.
func DetectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		AVX2:   cpu.X86.HasAVX2,
		AVX512: cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ,
		BMI2:   cpu.X86.HasBMI2,
		ADX:    cpu.X86.HasADX,
		ASIMD:  cpu.ARM64.HasASIMD,
	}
}

// String lists the detected features, e.g. "AVX2 BMI2 ADX".
func (f CPUFeatures) String() string {
	var names []string
	for _, feat := range []struct {
		on   bool
		name string
	}{
		{f.AVX512, "AVX-512"},
		{f.AVX2, "AVX2"},
		{f.BMI2, "BMI2"},
		{f.ADX, "ADX"},
		{f.ASIMD, "ASIMD"},
	} {
		if feat.on {
			names = append(names, feat.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

// cpuModel is a coarse machine identifier.
func cpuModel() string {
	return runtime.GOARCH + "-" + DetectCPUFeatures().String()
}
