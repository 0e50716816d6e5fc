package constants

// Application constants
const (
	AppName    = "synthval"
	AppVersion = "0.1.0"
)

// Validator types
const (
	ValidatorTypeAccuracy = "accuracy"
	ValidatorTypePrivacy  = "privacy"
)

// Binning defaults
const (
	// DefaultBins is the number of quantile bins for numeric columns and
	// the number of retained top categories for categorical columns.
	DefaultBins = 10

	// SentinelOther labels out-of-range numeric values and categories
	// outside the fitted top-k set.
	SentinelOther = "_other_"

	// SentinelMissing labels absent or unparseable values.
	SentinelMissing = "_missing_"

	// PairSeparator joins the two bin labels of a bivariate cell in
	// rendered frequency tables.
	PairSeparator = "|"
)

// Sampling defaults
const (
	// DefaultAccuracyMaxRecords caps each dataset before binning.
	DefaultAccuracyMaxRecords = 100000

	// DefaultPrivacyMaxSamples caps the per-group sample size for
	// nearest-neighbor search.
	DefaultPrivacyMaxSamples = 10000

	// DefaultSeed drives all subsampling when the caller does not
	// provide one.
	DefaultSeed = 1
)

// Interaction orders
const (
	// MaxInteractionOrder bounds accuracy computation to univariate and
	// bivariate column combinations.
	MaxInteractionOrder = 2
)

// Privacy metric constants
const (
	// TailQuantile is the reported lower quantile of DCR and NNDR.
	TailQuantile = 5.0

	// BoundQuantile is the holdout DCR quantile used to normalize
	// distances.
	BoundQuantile = 95.0

	// DCRNormalizationFloor keeps the normalization bound away from zero
	// when reference records are heavily duplicated.
	DCRNormalizationFloor = 1e-8

	// NeighborCount is the number of nearest reference neighbors
	// retrieved per query; rank 2 feeds the NNDR ratio.
	NeighborCount = 2
)

// Missing value tokens recognized by the loader
var MissingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"}
