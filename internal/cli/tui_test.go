package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lineage/pkg/gedcom/record"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/optional"
)

func listGraph() *genealogy.Graph {
	name := func(given, surname string) []record.Name {
		return []record.Name{{Given: optional.Some(given), Surname: optional.Some(surname)}}
	}
	return genealogy.Build([]record.Individual{
		{ID: "I1", Names: name("Ann", "Smith")},
		{ID: "I2", Names: name("John", "Smith")},
		{ID: "I3", Names: name("Mary", "Jones")},
	}, []record.Family{
		{ID: "F1", HusbandID: optional.Some("I2"), WifeID: optional.Some("I3"), ChildIDs: []string{"I1"}},
	}, genealogy.BuildOptions{})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m IndividualListModel, keys ...string) (IndividualListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(IndividualListModel)
	}
	return m, cmd
}

func TestIndividualListModel(t *testing.T) {
	m := NewIndividualListModel(listGraph())
	if len(m.Rows) != 3 || m.Rows[0].Parents != 2 || m.Rows[1].Parents != 0 {
		t.Fatalf("rows = %+v", m.Rows)
	}

	tests := []struct {
		name string
		keys []string
		want string // selected ID, empty for none
	}{
		{name: "First", keys: []string{"enter"}, want: "I1"},
		{name: "Down", keys: []string{"down", "j", "enter"}, want: "I3"},
		{name: "ClampBottom", keys: []string{"down", "down", "down", "down", "enter"}, want: "I3"},
		{name: "ClampTop", keys: []string{"up", "k", "enter"}, want: "I1"},
		{name: "UpAgain", keys: []string{"down", "down", "up", "enter"}, want: "I2"},
		{name: "Quit", keys: []string{"down", "q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cmd := press(m, tt.keys...)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			switch {
			case tt.want == "" && got.Selected != nil:
				t.Errorf("selected %s, want none", got.Selected.ID)
			case tt.want != "" && (got.Selected == nil || got.Selected.ID != tt.want):
				t.Errorf("selected %+v, want %s", got.Selected, tt.want)
			}
		})
	}
}

func TestIndividualListModelScrolls(t *testing.T) {
	m := NewIndividualListModel(listGraph())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	m = next.(IndividualListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want minimum 5", m.Height)
	}
	m.Height = 2
	m, _ = press(m, "down", "down")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = press(m, "up", "up")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestIndividualListModelView(t *testing.T) {
	view := NewIndividualListModel(listGraph()).View()
	for _, want := range []string{"Select Individual", "Ann Smith", "Mary Jones", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
