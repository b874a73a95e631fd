package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/boardflow/internal/board"
	"github.com/roach88/boardflow/internal/position"
)

// Scenario defines a conformance test scenario: a seed tree, a sequence
// of mutations with scripted remote outcomes, and the snapshots pushed
// in between. The final tree, the remote call trace, and the collected
// failure notifications are compared against a golden file.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// User is the session user id. Empty means the session starts
	// signed out.
	User string `yaml:"user,omitempty"`

	// Seed is the board tree active before the first step, if any.
	Seed *SeedBoard `yaml:"seed,omitempty"`

	// Steps is the mutation sequence.
	Steps []Step `yaml:"steps"`
}

// SeedBoard describes a board tree in scenario files. Positions are
// assigned from list order, so fixtures never spell them out.
type SeedBoard struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Columns []SeedColumn `yaml:"columns,omitempty"`
	Labels  []SeedLabel  `yaml:"labels,omitempty"`
}

// SeedColumn is one column and its cards, in display order.
type SeedColumn struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Cards []SeedCard `yaml:"cards,omitempty"`
}

// SeedCard is one card. Labels lists ids from the board's label set.
type SeedCard struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Labels []string `yaml:"labels,omitempty"`
}

// SeedLabel is one board-scoped label.
type SeedLabel struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Step is a single scenario action. Op selects the operation; the other
// fields carry its arguments. Fail scripts the step's primary remote
// call to fail with the given message; FailOp overrides which remote
// operation that is (for steps that issue more than one kind of call).
type Step struct {
	Op string `yaml:"op"`

	// Entity targets.
	Board  string `yaml:"board,omitempty"`
	Column string `yaml:"column,omitempty"`
	Card   string `yaml:"card,omitempty"`
	Label  string `yaml:"label,omitempty"`

	// Values.
	Name  string     `yaml:"name,omitempty"`
	Title string     `yaml:"title,omitempty"`
	Color string     `yaml:"color,omitempty"`
	Order []string   `yaml:"order,omitempty"` // reorder_columns
	From  string     `yaml:"from,omitempty"`  // move_card source column
	To    string     `yaml:"to,omitempty"`    // move_card destination column
	Index int        `yaml:"index,omitempty"` // move_card destination index
	Patch *PatchSpec `yaml:"patch,omitempty"` // update_card

	// Remote scripting.
	Fail   string `yaml:"fail,omitempty"`
	FailOp string `yaml:"fail_op,omitempty"`
	ID     string `yaml:"id,omitempty"` // server id queued for a creation

	// Snapshot push (op: apply_snapshot).
	Boards []SeedBoard `yaml:"boards,omitempty"`
}

// PatchSpec is the YAML shape of a card patch.
type PatchSpec struct {
	Title        *string  `yaml:"title,omitempty"`
	Description  *string  `yaml:"description,omitempty"`
	DueDate      *string  `yaml:"due_date,omitempty"`
	ClearDueDate bool     `yaml:"clear_due_date,omitempty"`
	Position     *float64 `yaml:"position,omitempty"`
}

// Step op constants.
const (
	OpSetUser        = "set_user"
	OpSignOut        = "sign_out"
	OpCreateBoard    = "create_board"
	OpRenameBoard    = "rename_board"
	OpDeleteBoard    = "delete_board"
	OpCreateColumn   = "create_column"
	OpRenameColumn   = "rename_column"
	OpDeleteColumn   = "delete_column"
	OpReorderColumns = "reorder_columns"
	OpCreateCard     = "create_card"
	OpUpdateCard     = "update_card"
	OpDeleteCard     = "delete_card"
	OpMoveCard       = "move_card"
	OpCreateLabel    = "create_label"
	OpLabelCard      = "create_label_on_card"
	OpDeleteLabel    = "delete_label"
	OpAssignLabel    = "assign_label"
	OpUnassignLabel  = "unassign_label"
	OpApplySnapshot  = "apply_snapshot"
)

var knownOps = map[string]bool{
	OpSetUser: true, OpSignOut: true,
	OpCreateBoard: true, OpRenameBoard: true, OpDeleteBoard: true,
	OpCreateColumn: true, OpRenameColumn: true, OpDeleteColumn: true,
	OpReorderColumns: true,
	OpCreateCard:     true, OpUpdateCard: true, OpDeleteCard: true, OpMoveCard: true,
	OpCreateLabel: true, OpLabelCard: true, OpDeleteLabel: true,
	OpAssignLabel: true, OpUnassignLabel: true,
	OpApplySnapshot: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}
	return nil
}

// buildBoard converts a seed into a tree, assigning positions from
// list order.
func buildBoard(seed SeedBoard) (board.Board, error) {
	b := board.Board{
		ID:      seed.ID,
		Name:    seed.Name,
		Columns: []board.Column{},
		Labels:  []board.Label{},
	}

	labelByID := make(map[string]board.Label, len(seed.Labels))
	for _, sl := range seed.Labels {
		l := board.Label{ID: sl.ID, Name: sl.Name, Color: sl.Color}
		b.Labels = append(b.Labels, l)
		labelByID[sl.ID] = l
	}

	colPositions := position.Resequence(len(seed.Columns))
	for i, sc := range seed.Columns {
		col := board.Column{
			ID:       sc.ID,
			Name:     sc.Name,
			Position: colPositions[i],
			Cards:    []board.Card{},
		}
		cardPositions := position.Resequence(len(sc.Cards))
		for j, scard := range sc.Cards {
			card := board.Card{
				ID:       scard.ID,
				Title:    scard.Title,
				Position: cardPositions[j],
				Labels:   []board.CardLabel{},
			}
			for _, labelID := range scard.Labels {
				l, ok := labelByID[labelID]
				if !ok {
					return board.Board{}, fmt.Errorf("card %s references unknown label %s", scard.ID, labelID)
				}
				card.Labels = append(card.Labels, board.CardLabel{CardID: scard.ID, Label: l})
			}
			col.Cards = append(col.Cards, card)
		}
		b.Columns = append(b.Columns, col)
	}
	return b, nil
}
