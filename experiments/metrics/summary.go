package metrics

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

type AgentSummary struct {
	Agent          int     `yaml:"agent"`
	Algorithm      string  `yaml:"algorithm"`
	Games          int     `yaml:"games"`
	Wins           int     `yaml:"wins"`
	Losses         int     `yaml:"losses"`
	Draws          int     `yaml:"draws"`
	WinRate        float64 `yaml:"win_rate"`
	Moves          int     `yaml:"moves"`
	MeanIterations float64 `yaml:"mean_iterations"`
	StdIterations  float64 `yaml:"std_iterations"`
	MeanSearchMs   float64 `yaml:"mean_search_ms"`
	ProvenRoots    int     `yaml:"proven_roots"`
}

type Summary struct {
	Experiment string         `yaml:"experiment"`
	Games      int            `yaml:"games"`
	Agents     []AgentSummary `yaml:"agents"`
}

// Summarize aggregates results and search effort per agent.
func Summarize(name string, configs []AgentConfig, games []GameRecord, moves []MoveRecord) Summary {
	movesByAgent := lo.GroupBy(moves, func(m MoveRecord) int { return m.Agent })

	agents := lo.Map(configs, func(config AgentConfig, _ int) AgentSummary {
		s := AgentSummary{Agent: config.ID, Algorithm: config.Algorithm}
		for _, g := range games {
			if g.Agent1 != config.ID && g.Agent2 != config.ID {
				continue
			}
			s.Games++
			switch g.WinningAgent {
			case 0:
				s.Draws++
			case config.ID:
				s.Wins++
			default:
				s.Losses++
			}
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games)
		}

		own := movesByAgent[config.ID]
		s.Moves = len(own)
		if len(own) > 0 {
			iterations := lo.Map(own, func(m MoveRecord, _ int) float64 { return float64(m.Iterations) })
			durations := lo.Map(own, func(m MoveRecord, _ int) float64 { return float64(m.Duration.Microseconds()) / 1000 })
			s.MeanIterations = stat.Mean(iterations, nil)
			if len(iterations) > 1 {
				s.StdIterations = stat.StdDev(iterations, nil)
			}
			s.MeanSearchMs = stat.Mean(durations, nil)
			s.ProvenRoots = lo.CountBy(own, func(m MoveRecord) bool { return m.Outcome != "" })
		}
		return s
	})

	return Summary{Experiment: name, Games: len(games), Agents: agents}
}
