package mcts

// UCBType selects the child-selection formula used by Tree.SelectChild.
type UCBType string

const (
	UCBPuct  UCBType = "puct"
	UCBUct   UCBType = "uct"
	UCBValue UCBType = "value"
)

// BackpropType selects how a value is folded into an ancestor's
// accumulated total value.
type BackpropType string

const (
	BackpropMuzero     BackpropType = "muzero"
	BackpropCumulative BackpropType = "cumulative"
)

// SearchStrategy selects when the ValueEstimator is invoked.
type SearchStrategy string

const (
	StrategyEvaluationFirst SearchStrategy = "evaluation_first"
	StrategyExpansionFirst  SearchStrategy = "expansion_first"
)

// EvaluationAgg selects how child initial values are aggregated in
// EvaluationFirst mode.
type EvaluationAgg string

const (
	AggMax  EvaluationAgg = "max"
	AggMean EvaluationAgg = "mean"
)

// Config configures one Tree search. Field names and defaults follow
// spec.md §6's configuration table.
type Config struct {
	MaxIterations uint32  // 100
	MaxTreeSize   uint32  // 10000
	MaxTime       float32 // seconds, 120
	MaxDepth      uint32  // 9

	UCBType      UCBType      // puct
	CUCB         float32      // 0.1
	BackpropType BackpropType // muzero

	SearchStrategy SearchStrategy // expansion_first
	EvaluationAgg  EvaluationAgg  // max
	InitNodeValue  float32        // 0.5, used with expansion_first

	Epsilon float32 // 0, epsilon-greedy in SelectChild

	MinMolSize uint32 // 6

	Silent bool // true
}

// DefaultConfig returns the configuration defaults named in spec.md §6.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  100,
		MaxTreeSize:    10000,
		MaxTime:        120,
		MaxDepth:       9,
		UCBType:        UCBPuct,
		CUCB:           0.1,
		BackpropType:   BackpropMuzero,
		SearchStrategy: StrategyExpansionFirst,
		EvaluationAgg:  AggMax,
		InitNodeValue:  0.5,
		Epsilon:        0,
		MinMolSize:     6,
		Silent:         true,
	}
}

// IsValid reports whether the configuration is internally consistent
// enough to run a search.
func (c Config) IsValid() bool {
	return c.MaxIterations > 0 &&
		c.MaxTreeSize > 1 &&
		c.MaxTime > 0 &&
		c.CUCB >= 0 &&
		c.Epsilon >= 0 && c.Epsilon <= 1
}
