package metrics

import (
	"sync/atomic"
	"time"

	"gamesearch/game"
)

// AgentConfig describes one strategy taking part in an experiment.
type AgentConfig struct {
	ID          int           `mapstructure:"id" yaml:"id"`
	Algorithm   string        `mapstructure:"algorithm" yaml:"algorithm"`
	DepthLimit  int           `mapstructure:"depth_limit" yaml:"depth_limit"`
	TimeLimit   time.Duration `mapstructure:"time_limit" yaml:"time_limit"`
	Iterations  int           `mapstructure:"iterations" yaml:"iterations"`
	Exploration float64       `mapstructure:"exploration" yaml:"exploration"`
	Seed        uint64        `mapstructure:"seed" yaml:"seed"`
}

// SearchMetric describes a single ChooseMove call.
type SearchMetric struct {
	Algorithm  string
	Duration   time.Duration
	Iterations int
	Playouts   int
	TreeReused bool
	Outcome    string // Proven outcome of the root, empty when unresolved
}

type MoveMetric struct {
	Step       int
	Player     game.Player
	Move       string
	Iterations int
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID
	Winner        game.Player
	WinningAgent  int // AgentConfig.ID, 0 for a draw
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

type Collector interface {
	Start(algorithm string)
	SetTreeReused(value bool)
	AddIteration()
	AddPlayout()
	SetOutcome(outcome string)
	Complete() SearchMetric
}

type collector struct {
	algorithm  string
	startTime  time.Time
	iterations atomic.Int64
	playouts   atomic.Int64
	treeReused atomic.Bool
	outcome    atomic.Value
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string) {
	m.algorithm = algorithm
	m.startTime = time.Now()
	m.iterations.Store(0)
	m.playouts.Store(0)
	m.treeReused.Store(false)
	m.outcome.Store("")
}

func (m *collector) SetTreeReused(value bool) {
	m.treeReused.Store(value)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddPlayout() {
	m.playouts.Add(1)
}

func (m *collector) SetOutcome(outcome string) {
	m.outcome.Store(outcome)
}

func (m *collector) Complete() SearchMetric {
	outcome, _ := m.outcome.Load().(string)
	return SearchMetric{
		Algorithm:  m.algorithm,
		Duration:   time.Since(m.startTime),
		Iterations: int(m.iterations.Load()),
		Playouts:   int(m.playouts.Load()),
		TreeReused: m.treeReused.Load(),
		Outcome:    outcome,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string)    {}
func (m *dummyCollector) SetTreeReused(value bool)  {}
func (m *dummyCollector) AddIteration()             {}
func (m *dummyCollector) AddPlayout()               {}
func (m *dummyCollector) SetOutcome(outcome string) {}
func (m *dummyCollector) Complete() SearchMetric    { return SearchMetric{} }
