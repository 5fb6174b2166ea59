package vm

// Statistics tracks per-family instruction counts across a processor's
// lifetime. It never affects architectural state — attaching or detaching
// it from a Processor changes nothing about Step's observable effects.
type Statistics struct {
	Total     uint64
	ByFamily  map[Family]uint64
}

// NewStatistics creates an empty counter set.
func NewStatistics() *Statistics {
	return &Statistics{ByFamily: make(map[Family]uint64)}
}

// Record increments the counters for one committed instruction.
func (s *Statistics) Record(f Family) {
	s.Total++
	s.ByFamily[f]++
}

// Count returns how many instructions of the given family have executed.
func (s *Statistics) Count(f Family) uint64 {
	return s.ByFamily[f]
}
