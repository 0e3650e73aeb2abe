package geom

// Options carries the tunable knobs of the kernel's bounded or parallel
// routines. The zero value is not useful; start from DefaultOptions.
type Options struct {
	// ParallelThreshold is the hull size above which ray casts fan out
	// across goroutines.
	ParallelThreshold int `json:"parallel_threshold"`

	// MaxRotationRetries bounds the jittered retries of GetRotation.
	MaxRotationRetries int `json:"max_rotation_retries"`

	// JitterMinDegrees and JitterMaxDegrees bound the random rotation applied
	// to direction pairs when a rotation composition is near singular.
	JitterMinDegrees float64 `json:"jitter_min_degrees"`
	JitterMaxDegrees float64 `json:"jitter_max_degrees"`

	// SingularityToleranceDegrees is how close to 90 or 180 degrees an angle
	// must be to count as singular.
	SingularityToleranceDegrees float64 `json:"singularity_tolerance_degrees"`
}

const (
	DefaultParallelThreshold  = 100
	DefaultMaxRotationRetries = 64
)

// DefaultOptions returns the kernel defaults.
func DefaultOptions() Options {
	return Options{
		ParallelThreshold:           DefaultParallelThreshold,
		MaxRotationRetries:          DefaultMaxRotationRetries,
		JitterMinDegrees:            5,
		JitterMaxDegrees:            10,
		SingularityToleranceDegrees: 1e-4,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = d.ParallelThreshold
	}
	if o.MaxRotationRetries <= 0 {
		o.MaxRotationRetries = d.MaxRotationRetries
	}
	if o.JitterMinDegrees <= 0 {
		o.JitterMinDegrees = d.JitterMinDegrees
	}
	if o.JitterMaxDegrees < o.JitterMinDegrees {
		o.JitterMaxDegrees = o.JitterMinDegrees + (d.JitterMaxDegrees - d.JitterMinDegrees)
	}
	if o.SingularityToleranceDegrees <= 0 {
		o.SingularityToleranceDegrees = d.SingularityToleranceDegrees
	}
	return o
}
