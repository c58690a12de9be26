package optimizer

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/lineup/internal/domain/model"
)

// Default genetic algorithm parameters.
const (
	DefaultGenerations      = 60
	DefaultPopulationSize   = 40
	DefaultMutationRate     = 0.2
	DefaultSurvivorFraction = 0.5

	minSurvivors = 2
	// initAttemptsPerSlot bounds retries when sampling a distinct initial
	// population.
	initAttemptsPerSlot = 20
)

// GeneticParams tunes the heuristic search. A nil Seed draws one from the
// clock; a fixed Seed makes the search reproducible.
type GeneticParams struct {
	Generations      int
	PopulationSize   int
	MutationRate     float64
	SurvivorFraction float64
	Seed             *uint64
}

// DefaultGeneticParams returns the stock parameters with no fixed seed.
func DefaultGeneticParams() GeneticParams {
	return GeneticParams{
		Generations:      DefaultGenerations,
		PopulationSize:   DefaultPopulationSize,
		MutationRate:     DefaultMutationRate,
		SurvivorFraction: DefaultSurvivorFraction,
	}
}

// WithSeed returns a copy of p pinned to seed.
func (p GeneticParams) WithSeed(seed uint64) GeneticParams {
	p.Seed = &seed
	return p
}

func (p GeneticParams) normalized() GeneticParams {
	if p.Generations < 0 {
		p.Generations = 0
	}
	if p.PopulationSize < minSurvivors {
		p.PopulationSize = minSurvivors
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		p.MutationRate = DefaultMutationRate
	}
	if p.SurvivorFraction <= 0 || p.SurvivorFraction > 1 {
		p.SurvivorFraction = DefaultSurvivorFraction
	}
	return p
}

func (p GeneticParams) newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	if p.Seed != nil {
		seed = *p.Seed
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// candidate is a sorted set of distinct pool indices plus its fitness.
type candidate struct {
	genes   []int
	fitness float64
}

// genetic holds the state of a single heuristic search. It is created per
// call and never shared.
type genetic struct {
	pool      []model.Player
	k         int
	objective Objective
	params    GeneticParams
	rng       *rand.Rand
	ratings   []int
}

// SelectLineupHeuristic approximates the best lineup with a genetic
// algorithm. The result always carries the heuristic_used warning and is not
// guaranteed to match the exact optimum. Results are deterministic for a
// fixed params.Seed.
func SelectLineupHeuristic(pool []model.Player, k int, objective Objective, params GeneticParams) (model.LineupResult, error) {
	if err := validate(pool, k, objective); err != nil {
		return model.LineupResult{}, err
	}
	best := searchGenetic(pool, k, objective, params)
	res := buildResult(pool, best.genes, objective, strategyGenetic, formatCount(len(pool), k))
	applyWarnings(&res, DefaultHighSpreadThreshold, true)
	return res, nil
}

func searchGenetic(pool []model.Player, k int, objective Objective, params GeneticParams) candidate {
	params = params.normalized()
	g := &genetic{
		pool:      pool,
		k:         k,
		objective: objective,
		params:    params,
		rng:       params.newRand(),
		ratings:   make([]int, k),
	}

	population := g.initialPopulation()
	best := population[0]
	for _, c := range population[1:] {
		if c.fitness > best.fitness {
			best = c
		}
	}

	survivorCount := max(minSurvivors, int(float64(params.PopulationSize)*params.SurvivorFraction))
	survivorCount = min(survivorCount, params.PopulationSize)

	for gen := 0; gen < params.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})
		survivors := population[:survivorCount]

		next := make([]candidate, 0, params.PopulationSize)
		next = append(next, survivors...)
		for len(next) < params.PopulationSize {
			child := g.breed(survivors)
			if child.fitness > best.fitness {
				best = child
			}
			next = append(next, child)
		}
		population = next
	}
	return best
}

// initialPopulation samples distinct random k-subsets. When the search
// space is smaller than the population, duplicates are accepted after a
// bounded number of retries.
func (g *genetic) initialPopulation() []candidate {
	size := g.params.PopulationSize
	population := make([]candidate, 0, size)
	seen := make(map[string]struct{}, size)
	attempts := 0
	for len(population) < size {
		genes := g.randomGenes()
		key := genesKey(genes)
		if _, dup := seen[key]; dup && attempts < size*initAttemptsPerSlot {
			attempts++
			continue
		}
		seen[key] = struct{}{}
		population = append(population, g.score(genes))
	}
	return population
}

func (g *genetic) randomGenes() []int {
	genes := g.rng.Perm(len(g.pool))[:g.k]
	slices.Sort(genes)
	return genes
}

// breed produces one child from two distinct random survivors using
// single-point crossover, repair and optional mutation.
func (g *genetic) breed(survivors []candidate) candidate {
	i := g.rng.IntN(len(survivors))
	j := g.rng.IntN(len(survivors) - 1)
	if j >= i {
		j++
	}
	a, b := survivors[i].genes, survivors[j].genes

	cut := 1
	if g.k > 1 {
		cut = 1 + g.rng.IntN(g.k-1)
	}
	combined := make([]int, 0, g.k)
	combined = append(combined, a[:cut]...)
	combined = append(combined, b[cut:]...)

	child := make([]int, 0, g.k)
	used := make(map[int]struct{}, g.k)
	for _, idx := range combined {
		if _, ok := used[idx]; ok {
			continue
		}
		used[idx] = struct{}{}
		child = append(child, idx)
	}
	for len(child) < g.k {
		idx := g.randomUnused(used)
		used[idx] = struct{}{}
		child = append(child, idx)
	}

	if g.k < len(g.pool) && g.rng.Float64() < g.params.MutationRate {
		slot := g.rng.IntN(g.k)
		idx := g.randomUnused(used)
		delete(used, child[slot])
		used[idx] = struct{}{}
		child[slot] = idx
	}

	slices.Sort(child)
	return g.score(child)
}

// randomUnused picks a uniformly random pool index not present in used.
// Callers guarantee at least one such index exists.
func (g *genetic) randomUnused(used map[int]struct{}) int {
	free := make([]int, 0, len(g.pool)-len(used))
	for idx := range g.pool {
		if _, ok := used[idx]; !ok {
			free = append(free, idx)
		}
	}
	return free[g.rng.IntN(len(free))]
}

func (g *genetic) score(genes []int) candidate {
	for i, idx := range genes {
		g.ratings[i] = g.pool[idx].Rating
	}
	return candidate{genes: genes, fitness: g.objective.fitness(statsOf(g.ratings))}
}

func genesKey(genes []int) string {
	var sb strings.Builder
	for i, idx := range genes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}
