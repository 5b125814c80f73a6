package handsynth

import (
	"unsafe"
)

// MemoryUsage approximates the bank size in bytes.
// Recordings shared by several generators are counted once.
func (b *InstrumentBank) MemoryUsage() uint {
	memoryUsage := int(unsafe.Sizeof(*b))
	seen := make(map[*Sample]struct{})
	for i := range b.maps {
		memoryUsage += int(unsafe.Sizeof(InstrumentMap{}))
		for _, trig := range b.maps[i].Triggers {
			memoryUsage += len(trig.Generators) * int(unsafe.Sizeof(Generator{}))
			for _, g := range trig.Generators {
				s := g.rec.sample
				if s == nil {
					continue
				}
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				memoryUsage += int(unsafe.Sizeof(Sample{}))
				memoryUsage += len(s.data) * int(unsafe.Sizeof(float32(0)))
			}
		}
	}
	return uint(memoryUsage)
}
