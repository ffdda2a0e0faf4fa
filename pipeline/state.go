package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/InputParameters"
	"github.com/notargets/polyfem/assembly"
	"github.com/notargets/polyfem/basis"
	"github.com/notargets/polyfem/field"
	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/problem"
	"github.com/notargets/polyfem/utils"
)

type Stage uint8

const (
	StageMesh Stage = iota
	StageClassify
	StageBasis
	StageValues
	StageStiffness
	StageRHS
	StageSolve
	StageErrors
)

var stageNames = []string{"LoadMesh", "Classify", "BuildBasis", "ComputeAssemblyValues", "AssembleStiffness",
	"AssembleRHS", "Solve", "ComputeErrors"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

var ErrStageOrder = errors.New("stage run out of order")

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

/*
State carries one run of the pipeline. Stages run in order, each requiring the one before it; a failing stage
leaves every later stage unavailable until it succeeds, so a partially assembled system is never solved.
*/
type State struct {
	Params  *InputParameters.FEMParameters
	Problem problem.Problem
	Logger  logr.Logger

	Mesh       mesh.Mesh
	Tags       []mesh.ElementType
	Space      *basis.Space
	Values     []assembly.ElementValues
	Stiffness  utils.CSR // before boundary conditions
	System     utils.CSR // with the Dirichlet rows and columns replaced
	RHS        []float64
	Solution   []float64
	Iterations int
	Errors     *field.Errors // nil when the problem has no exact solution

	markers   mesh.Markers
	partition mesh.PartitionMethod
	solver    assembly.SolverType
	done      Stage // number of completed stages
}

type Option func(*State)

func WithLogger(log logr.Logger) Option {
	return func(s *State) { s.Logger = log }
}

func WithProblem(p problem.Problem) Option {
	return func(s *State) { s.Problem = p }
}

// New validates the parameters and returns a State ready for LoadMesh or SetMesh.
func New(params *InputParameters.FEMParameters, opts ...Option) (s *State, err error) {
	if params == nil {
		params = InputParameters.NewFEMParameters()
	}
	s = &State{Params: params, Logger: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.Problem == nil {
		if s.Problem, err = problem.New(params.Problem); err != nil {
			return nil, err
		}
	}
	if s.partition, err = mesh.NewPartitionMethod(params.Partition); err != nil {
		return nil, err
	}
	if s.solver, err = assembly.NewSolverType(params.Solver); err != nil {
		return nil, err
	}
	return
}

// Components is the number of unknowns per DOF node.
func (s *State) Components() int {
	return problem.Components(s.Problem, s.Mesh.Dimension())
}

// run executes stage fn after checking its predecessors completed, and records the outcome.
func (s *State) run(stage Stage, fn func() error) (err error) {
	if s.done < stage {
		return &StageError{Stage: stage, Err: fmt.Errorf("%w: %s has not completed", ErrStageOrder, stage-1)}
	}
	start := time.Now()
	s.done = stage
	if err = fn(); err != nil {
		s.Logger.Error(err, "stage failed", "stage", stage.String())
		return &StageError{Stage: stage, Err: err}
	}
	s.done = stage + 1
	s.Logger.V(1).Info("stage complete", "stage", stage.String(), "elapsed", time.Since(start))
	return
}

func (s *State) LoadMesh() error {
	return s.run(StageMesh, func() (err error) {
		var m mesh.Mesh
		if m, s.markers, err = MeshFromParams(s.Params); err != nil {
			return
		}
		return s.setMesh(m)
	})
}

// SetMesh installs a caller built mesh in place of LoadMesh; parameter refinements and BCs still apply.
func (s *State) SetMesh(m mesh.Mesh) error {
	return s.run(StageMesh, func() error { return s.setMesh(m) })
}

func (s *State) setMesh(m mesh.Mesh) (err error) {
	if m, err = m.Refine(s.Params.Refinements); err != nil {
		return
	}
	if len(s.Params.BCs) != 0 {
		var fn mesh.TagFunc
		var find func(c r3.Vec) (string, bool)
		if len(s.markers) != 0 {
			find = s.markers.Find
		}
		if fn, err = s.Params.BoundaryTagger(find); err != nil {
			return
		}
		m.SetBoundaryTags(fn)
	}
	s.Mesh = m
	s.Logger.V(1).Info("mesh ready", "mesh", fmt.Sprint(m), "elements", m.NumElements(), "vertices", m.NumVertices())
	return
}

func (s *State) Classify() error {
	return s.run(StageClassify, func() error {
		s.Tags = mesh.ComputeElementTags(s.Mesh)
		s.Logger.V(1).Info("classified elements", "counts", mesh.FormatTagCounts(mesh.TagCounts(s.Tags)))
		return nil
	})
}

func (s *State) BuildBasis() error {
	return s.run(StageBasis, func() (err error) {
		s.Space, err = basis.Build(s.Mesh, s.Tags, basis.Options{
			Order:           s.Params.PolynomialOrder,
			Discretization:  s.Params.Discretization,
			BoundarySamples: s.Params.BoundarySamples,
			ParallelDegree:  s.Params.ParallelDegree,
			Partition:       s.partition,
			Logger:          s.Logger,
		})
		return
	})
}

func (s *State) ComputeAssemblyValues() error {
	return s.run(StageValues, func() (err error) {
		s.Values, err = assembly.ComputeValues(s.Space, s.Params.QuadOrder(), s.Params.ParallelDegree)
		return
	})
}

func (s *State) localAssembler() assembly.LocalAssembler {
	if s.Problem.IsScalar() {
		return assembly.Laplacian{}
	}
	return assembly.LinearElasticity{Lambda: s.Params.Lambda, Mu: s.Params.Mu}
}

func (s *State) AssembleStiffness() error {
	return s.run(StageStiffness, func() error {
		var err error
		if s.Stiffness, err = assembly.AssembleMatrix(s.Values, s.localAssembler(), s.Space.NumBases,
			s.Params.ParallelDegree); err != nil {
			return err
		}
		s.Logger.V(1).Info("assembled stiffness", "rows", s.Space.NumBases*s.Components(), "nnz", s.Stiffness.NNZ())
		return nil
	})
}

/*
AssembleRHS integrates the source term and imposes the Dirichlet data of the problem on the nodes of Dirichlet
facets. Other boundary facets get the natural condition of a zero flux.
*/
func (s *State) AssembleRHS() error {
	return s.run(StageRHS, func() (err error) {
		var (
			dim   = s.Mesh.Dimension()
			nc    = s.Components()
			nodes = s.Space.DirichletNodes
			rhs   = assembly.AssembleRHS(s.Values, s.Problem.RHS, s.Space.NumBases, nc)
		)
		var values []float64
		if len(nodes) > 0 {
			pts := mat.NewDense(len(nodes), dim, nil)
			for i, n := range nodes {
				p := s.Space.Nodes[n]
				pts.SetRow(i, []float64{p.X, p.Y, p.Z}[:dim])
			}
			values = append(values, s.Problem.BC(pts, dim).RawMatrix().Data...)
		}
		if s.System, err = assembly.ApplyDirichlet(s.Stiffness, rhs, assembly.ExpandDOFs(nodes, nc), values); err != nil {
			return
		}
		s.RHS = rhs
		return
	})
}

func (s *State) Solve() error {
	return s.run(StageSolve, func() (err error) {
		s.Solution, s.Iterations, err = assembly.Solve(s.solver, s.System, append([]float64{}, s.RHS...),
			assembly.SolverOptions{Tolerance: s.Params.Tolerance, MaxIterations: s.Params.MaxIterations})
		if err == nil {
			s.Logger.V(1).Info("solved", "solver", s.solver.String(), "iterations", s.Iterations)
		}
		return
	})
}

func (s *State) ComputeErrors() error {
	return s.run(StageErrors, func() error {
		s.Errors = nil
		if !s.Problem.HasExact() {
			s.Logger.V(1).Info("no exact solution, skipping errors", "problem", s.Problem.Name())
			return nil
		}
		errs, err := field.ComputeErrors(s.Values, s.Solution, s.Problem, s.Mesh.Dimension())
		if err != nil {
			return err
		}
		s.Errors = &errs
		return nil
	})
}

// Interpolate evaluates the solution at pts; it needs a completed Solve.
func (s *State) Interpolate(pts field.PointSet) (*mat.Dense, error) {
	if s.done <= StageSolve {
		return nil, fmt.Errorf("%w: Interpolate needs a solution", ErrStageOrder)
	}
	return field.Interpolate(s.Space, s.Solution, s.Components(), pts), nil
}

// RunAll runs every stage from LoadMesh (or from Classify when a mesh was set) through ComputeErrors.
func (s *State) RunAll() (err error) {
	stages := []func() error{s.Classify, s.BuildBasis, s.ComputeAssemblyValues, s.AssembleStiffness, s.AssembleRHS,
		s.Solve, s.ComputeErrors}
	if s.done == StageMesh {
		stages = append([]func() error{s.LoadMesh}, stages...)
	}
	for _, stage := range stages {
		if err = stage(); err != nil {
			return
		}
	}
	return
}

// Serialize is a placeholder; runs persist nothing.
func (s *State) Serialize(w io.Writer) error { return nil }
