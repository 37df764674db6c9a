package emulator

const (
	DefaultScale = 10
	DefaultHz    = 60 * 8
)

// Options configures the SDL host.
type Options struct {
	Scale    int    // window pixels per CHIP-8 pixel
	Hz       int    // instructions executed per second
	StepMode bool   // start paused, stepping with space
	FontPath string // font atlas for the debug overlay, disabled when empty
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Hz <= 0 {
		o.Hz = DefaultHz
	}
	return o
}

// cyclesPerFrame is the number of instructions run between two 60 Hz frames.
func (o Options) cyclesPerFrame() int {
	n := o.Hz / VBlankFrequency
	if n < 1 {
		n = 1
	}
	return n
}
