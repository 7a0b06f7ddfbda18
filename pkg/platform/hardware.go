package platform

import (
	"fmt"

	"github.com/jaypipes/ghw"
	"github.com/klauspost/cpuid/v2"
)

// Hardware summarizes the compute resources a training run can use.
type Hardware struct {
	CPU           string
	PhysicalCores int
	LogicalCores  int
	// Features lists notable SIMD extensions supported by the CPU.
	Features []string
	GPUs     []GPU
}

// GPU is a graphics card found on the PCI bus.
type GPU struct {
	Index   int
	Address string
	Vendor  string
	Product string
}

func (g GPU) String() string {
	return fmt.Sprintf("%d: %s %s", g.Index, g.Vendor, g.Product)
}

var notableFeatures = []struct {
	id   cpuid.FeatureID
	name string
}{
	{cpuid.AVX2, "AVX2"},
	{cpuid.AVX512F, "AVX512F"},
	{cpuid.FMA3, "FMA3"},
	{cpuid.ASIMD, "ASIMD"},
}

// DetectHardware inspects the CPU and enumerates GPUs. GPU enumeration is
// not supported everywhere; in that case the error is returned alongside
// the CPU information.
func DetectHardware() (Hardware, error) {
	hw := Hardware{
		CPU:           cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
	}
	for _, f := range notableFeatures {
		if cpuid.CPU.Supports(f.id) {
			hw.Features = append(hw.Features, f.name)
		}
	}

	info, err := ghw.GPU()
	if err != nil {
		return hw, fmt.Errorf("enumerating GPUs: %w", err)
	}
	for _, card := range info.GraphicsCards {
		gpu := GPU{Index: card.Index, Address: card.Address, Vendor: "unknown", Product: "unknown"}
		if card.DeviceInfo != nil {
			if card.DeviceInfo.Vendor != nil {
				gpu.Vendor = card.DeviceInfo.Vendor.Name
			}
			if card.DeviceInfo.Product != nil {
				gpu.Product = card.DeviceInfo.Product.Name
			}
		}
		hw.GPUs = append(hw.GPUs, gpu)
	}
	return hw, nil
}
