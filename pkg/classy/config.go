package classy

// DatasetConfig is the declarative configuration for a dataset.
// The Name field selects the registered dataset constructor; the remaining
// fields configure the wrapper. Constructor-specific keys (e.g., a CSV
// pattern) travel in Extra and are extracted by the constructor itself.
type DatasetConfig struct {
	// Name identifies the registered dataset type (required).
	Name string `json:"name"`

	// BatchsizePerReplica is the number of samples grouped into one batch
	// (required, positive).
	BatchsizePerReplica int `json:"batchsize_per_replica"`

	// Shuffle enables deterministic per-epoch shuffling (required; the
	// config key "use_shuffle" is accepted as an alias).
	Shuffle bool `json:"use_shuffle"`

	// NumSamples optionally caps the dataset to its first NumSamples
	// items. Zero means "use the full source length".
	NumSamples int `json:"num_samples,omitempty"`

	// DropLast drops an incomplete trailing batch instead of emitting it
	// shorter. Defaults to false: the final batch may be smaller than
	// BatchsizePerReplica.
	DropLast bool `json:"drop_last,omitempty"`

	// Transforms is the ordered list of transform configurations applied
	// to every sample. Empty means the identity transform.
	Transforms []TransformConfig `json:"transforms,omitempty"`

	// Extra carries constructor-specific keys not interpreted by the
	// wrapper. Constructors extract what they need and ignore the rest.
	Extra map[string]any `json:"-"`
}

// TransformConfig is the declarative configuration for a single transform.
type TransformConfig struct {
	// Name identifies the registered transform type (required).
	Name string `json:"name"`

	// Config contains the transform-specific parameters, including any
	// nested transform blocks.
	Config map[string]any `json:"config,omitempty"`
}

// Process start strategies accepted for IteratorOptions.MultiprocessingContext.
// Workers run as goroutines; the strategy is accepted for configuration
// compatibility and validated, but does not change in-process semantics.
const (
	MPContextNone       = ""
	MPContextSpawn      = "spawn"
	MPContextFork       = "fork"
	MPContextForkserver = "forkserver"
)

// IteratorOptions configures one iteration pass (epoch) over a dataset.
type IteratorOptions struct {
	// ShuffleSeed seeds the shuffle permutation. The same (seed, epoch)
	// always produces the same order.
	ShuffleSeed int64

	// Epoch is the current epoch number; it is mixed into the shuffle
	// permutation so consecutive epochs see different orders.
	Epoch int64

	// NumWorkers is the number of parallel item-fetch workers. Zero means
	// fully synchronous iteration on the calling goroutine. Worker count
	// never changes batch contents or order.
	NumWorkers int

	// PinMemory is accepted for configuration compatibility and ignored:
	// there is no device memory to pin in this runtime.
	PinMemory bool

	// MultiprocessingContext must be one of the MPContext* constants.
	MultiprocessingContext string
}
