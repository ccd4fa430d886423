package solver

import (
	"fmt"
	"strings"
)

// VarID identifies a binary variable inside a single Model. Ids are dense and start at 0.
type VarID int

type Term struct {
	Var   VarID
	Coeff int
}

type Relation int

const (
	LessOrEqual Relation = iota
	Equal
	GreaterOrEqual
)

func (relation Relation) String() string {
	switch relation {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Relation(%d)", int(relation))
}

type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Constraint states sum(Terms) Relation Bound
type Constraint struct {
	Name     string
	Terms    []Term
	Relation Relation
	Bound    int
}

// Model is an opaque 0/1 linear program: binary variables, linear constraints and a linear objective.
// Adapters never look at variable or constraint names beyond passing them through.
type Model struct {
	Name        string
	Constraints []Constraint
	Objective   []Term
	Sense       Sense

	names []string
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVariable declares a new binary variable and returns its id
func (model *Model) AddVariable(name string) VarID {
	model.names = append(model.names, name)
	return VarID(len(model.names) - 1)
}

func (model *Model) AddConstraint(name string, terms []Term, relation Relation, bound int) {
	model.Constraints = append(model.Constraints, Constraint{
		Name:     name,
		Terms:    terms,
		Relation: relation,
		Bound:    bound,
	})
}

func (model *Model) SetObjective(terms []Term, sense Sense) {
	model.Objective = terms
	model.Sense = sense
}

func (model *Model) Variables() int {
	return len(model.names)
}

func (model *Model) VariableName(variable VarID) string {
	return model.names[variable]
}

// Evaluate returns the objective value of an assignment. Missing values count as 0.
func (model *Model) Evaluate(values []bool) int {
	return sumTerms(model.Objective, values)
}

// Check returns an error naming the first constraint the assignment violates, if any
func (model *Model) Check(values []bool) error {
	for i, constraint := range model.Constraints {
		if !constraint.satisfiedBy(sumTerms(constraint.Terms, values)) {
			return fmt.Errorf("constraint %v (%v) is violated", i, constraint.Name)
		}
	}
	return nil
}

// trivialInfeasibility reports a constraint without terms whose bound can never be met
func (model *Model) trivialInfeasibility() (Constraint, bool) {
	for _, constraint := range model.Constraints {
		if len(constraint.Terms) == 0 && !constraint.satisfiedBy(0) {
			return constraint, true
		}
	}
	return Constraint{}, false
}

// ToLP renders the model in CPLEX LP format, using v<id> as variable names and c<index> as row names
func (model *Model) ToLP() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "\\ %v\n", model.Name)

	if model.Sense == Maximize {
		builder.WriteString("Maximize\n")
	} else {
		builder.WriteString("Minimize\n")
	}
	builder.WriteString(" obj:")
	if len(model.Objective) == 0 && model.Variables() > 0 {
		builder.WriteString(" 0 v0")
	}
	writeTerms(&builder, model.Objective)
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for i, constraint := range model.Constraints {
		if len(constraint.Terms) == 0 {
			continue // Constant rows are either trivially true or caught before solving
		}
		fmt.Fprintf(&builder, " c%d:", i)
		writeTerms(&builder, constraint.Terms)
		fmt.Fprintf(&builder, " %v %d\n", constraint.Relation, constraint.Bound)
	}

	if model.Variables() > 0 {
		builder.WriteString("Binaries\n")
		for i := range model.Variables() {
			fmt.Fprintf(&builder, " v%d", i)
			if (i+1)%16 == 0 {
				builder.WriteString("\n")
			}
		}
		builder.WriteString("\n")
	}
	builder.WriteString("End\n")
	return builder.String()
}

func (constraint Constraint) satisfiedBy(value int) bool {
	switch constraint.Relation {
	case LessOrEqual:
		return value <= constraint.Bound
	case GreaterOrEqual:
		return value >= constraint.Bound
	default:
		return value == constraint.Bound
	}
}

func sumTerms(terms []Term, values []bool) int {
	sum := 0
	for _, term := range terms {
		if int(term.Var) < len(values) && values[term.Var] {
			sum += term.Coeff
		}
	}
	return sum
}

func writeTerms(builder *strings.Builder, terms []Term) {
	for i, term := range terms {
		if i > 0 && i%8 == 0 {
			builder.WriteString("\n  ") // Keep rows well below the LP line-length limit
		}
		switch {
		case term.Coeff < 0:
			fmt.Fprintf(builder, " - %d v%d", -term.Coeff, term.Var)
		case i == 0:
			fmt.Fprintf(builder, " %d v%d", term.Coeff, term.Var)
		default:
			fmt.Fprintf(builder, " + %d v%d", term.Coeff, term.Var)
		}
	}
}
