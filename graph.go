package cellsheet

import (
	"sort"

	"github.com/polydawn/go-errcat"
)

// dependencyEdge: Dependent references Precedent
type dependencyEdge struct {
	Precedent Position
	Dependent Position
}

// editPlan is the result of checking a single edit against the current
// reference graph. nothing in the sheet is touched until the plan is
// applied, so a rejected edit leaves no trace.
type editPlan struct {
	target Position
	edges  []dependencyEdge
	vivify []Position // referenced positions with no cell yet
}

// planEdit walks depth-first from each referenced position through the
// existing cells' references. reaching target means the edit would close
// a cycle. every step X -> Y is recorded so Y can learn X depends on it.
func (s *Sheet) planEdit(target Position, references []Position) (*editPlan, error) {
	plan := &editPlan{target: target}
	if len(references) == 0 {
		return plan, nil
	}

	visited := make(map[Position]struct{})
	stack := make([]dependencyEdge, 0, len(references))
	pushReferences := func(from Position, refs []Position) {
		// reversed so the walk visits references in formula order
		for i := len(refs) - 1; i >= 0; i-- {
			stack = append(stack, dependencyEdge{Precedent: refs[i], Dependent: from})
		}
	}
	pushReferences(target, references)

	for len(stack) > 0 {
		step := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if step.Precedent == target {
			return nil, errcat.Errorf(ErrCircularDependency,
				"circular dependency: %s is reachable from its own references (via %s)",
				target.ToLabel(), step.Dependent.ToLabel())
		}
		plan.edges = append(plan.edges, step)

		if _, seen := visited[step.Precedent]; seen {
			continue
		}
		visited[step.Precedent] = struct{}{}

		cell, ok := s.cells[step.Precedent]
		if !ok {
			plan.vivify = append(plan.vivify, step.Precedent)
			continue
		}
		pushReferences(step.Precedent, cell.ReferencedCells())
	}

	return plan, nil
}

// applyPlan installs empty cells for unset references and wires every
// recorded edge
func (s *Sheet) applyPlan(plan *editPlan) {
	for _, pos := range plan.vivify {
		if _, ok := s.cells[pos]; ok {
			continue
		}
		cell := newCell(s, pos, EmptyContent{})
		s.adoptDetached(cell)
		s.install(cell)
	}
	for _, edge := range plan.edges {
		if cell, ok := s.cells[edge.Precedent]; ok {
			cell.RegisterDependent(edge.Dependent)
		}
	}
}

// unwire removes dependent from each of the given precedents
func (s *Sheet) unwire(dependent Position, precedents []Position) {
	for _, pos := range precedents {
		if cell, ok := s.cells[pos]; ok {
			delete(cell.dependents, dependent)
			continue
		}
		if parked, ok := s.detached[pos]; ok {
			delete(parked, dependent)
			if len(parked) == 0 {
				delete(s.detached, pos)
			}
		}
	}
}

// adoptDetached hands a new cell the dependents left behind when its
// position was last cleared
func (s *Sheet) adoptDetached(cell *Cell) {
	parked, ok := s.detached[cell.pos]
	if !ok {
		return
	}
	for pos := range parked {
		cell.dependents[pos] = struct{}{}
	}
	delete(s.detached, cell.pos)
}

// AllDependents returns every cell that depends on pos, directly or
// transitively, in row-major order
func (s *Sheet) AllDependents(pos Position) []Position {
	start, ok := s.cells[pos]
	if !ok {
		return []Position{}
	}

	visited := make(map[Position]struct{})
	result := []Position{}
	stack := []*Cell{start}
	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dep := range cell.dependents {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			result = append(result, dep)
			if next, ok := s.cells[dep]; ok {
				stack = append(stack, next)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}
