package wire

// SourceMask is the bit mask of sources a zone is allowed to select.
// Bit 0 is source 1.
type SourceMask uint8

// Source mask bits.
const (
	MaskSource1 SourceMask = 1 << iota
	MaskSource2
	MaskSource3
	MaskSource4
	MaskSource5
	MaskSource6
)

// Sources returns the source numbers set in the mask, ascending.
func (m SourceMask) Sources() []int {
	var sources []int
	for s := 1; s <= 6; s++ {
		if m&(1<<(s-1)) != 0 {
			sources = append(sources, s)
		}
	}
	return sources
}

// SourceMaskOf builds a mask from source numbers. Numbers outside 1..6
// are ignored.
func SourceMaskOf(sources ...int) SourceMask {
	var m SourceMask
	for _, s := range sources {
		if s >= 1 && s <= 6 {
			m |= 1 << (s - 1)
		}
	}
	return m
}

// DndMask is the bit mask of a zone's do-not-disturb options.
type DndMask uint8

// Do-not-disturb mask bits.
const (
	DndNoMute DndMask = 1 << iota
	DndNoPage
	DndNoParty
)

var dndNames = []struct {
	bit  DndMask
	name string
}{
	{DndNoMute, "NOMUTE"},
	{DndNoPage, "NOPAGE"},
	{DndNoParty, "NOPARTY"},
}

// Options returns the option names set in the mask, in bit order.
func (m DndMask) Options() []string {
	var opts []string
	for _, d := range dndNames {
		if m&d.bit != 0 {
			opts = append(opts, d.name)
		}
	}
	return opts
}

// DndMaskOf builds a mask from option names. Unknown names are ignored.
func DndMaskOf(options ...string) DndMask {
	var m DndMask
	for _, opt := range options {
		for _, d := range dndNames {
			if d.name == opt {
				m |= d.bit
			}
		}
	}
	return m
}
