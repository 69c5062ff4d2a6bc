package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/cache"
	"github.com/matzehuels/gridpack/pkg/grid"
	"github.com/matzehuels/gridpack/pkg/interact"
	gridio "github.com/matzehuels/gridpack/pkg/io"
)

const editorHelp = "tab select  ←↑↓→ move  shift+arrows resize  ⏎ drop  esc cancel  " +
	"c compact  f float  u revert  s save  q quit"

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "edit <layout.json>",
		Short: "Edit a layout interactively",
		Long: `Edit a layout interactively in the terminal.

Select a widget with tab, then drag it with the arrow keys or resize it with
shift and the arrow keys. Other widgets are pushed out of the way as the
widget moves. Enter drops the widget where it is, esc puts it back.

` + editorHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to save to (default: the input)")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()
	doc, err := readLayout(input)
	if err != nil {
		return err
	}
	opts := c.options(cmd, doc)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	layouts := doc.Layouts
	if layouts == nil && !opts.NoCache {
		stored, ok, err := cache.LoadLayouts(ctx, runner.Cache, runner.Keyer.LayoutsKey(doc.Widgets))
		if err != nil {
			c.Logger.Warn("column cache unavailable", "error", err)
		} else if ok {
			layouts = stored
		}
	}

	if output == "" {
		output = input
	}
	save := func(widgets []grid.Widget, float bool, layouts map[int][]grid.LayoutEntry) error {
		out := &gridio.Document{Widgets: widgets}
		if doc.Grid != nil || float != opts.Float {
			spec := gridio.GridSpec{}
			if doc.Grid != nil {
				spec = *doc.Grid
			}
			spec.Float = &float
			out.Grid = &spec
		}
		if doc.Layouts != nil {
			out.Layouts = layouts
		}
		if !opts.NoCache {
			key := runner.Keyer.LayoutsKey(widgets)
			if err := cache.StoreLayouts(ctx, runner.Cache, key, layouts, cache.TTLLayouts); err != nil {
				c.Logger.Warn("could not store column cache", "key", key, "error", err)
			}
		}
		return gridio.ExportJSON(out, output)
	}

	// the terminal belongs to the editor while it runs
	m := newEditorModel(input, opts.GridOptions(), doc.Widgets, layouts, save, log.New(io.Discard))
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if fm, ok := final.(editorModel); ok {
		switch {
		case fm.modified:
			printWarning("Unsaved changes to %s were discarded", input)
		case fm.saves > 0:
			printSuccess("Saved %s", input)
			printFile(output)
		}
	}
	return nil
}

// =============================================================================
// editorModel - Interactive layout editor
// =============================================================================

// saveFunc persists the editor's layout.
type saveFunc func(widgets []grid.Widget, float bool, layouts map[int][]grid.LayoutEntry) error

// snapshot is the layout as last saved.
type snapshot struct {
	widgets []grid.Widget
	float   bool
	layouts map[int][]grid.LayoutEntry
}

// editorModel is the bubbletea model of the layout editor. Gestures run
// through an [interact.Drag]; the pointer moves freely and the drag decides
// where the widget ends up.
type editorModel struct {
	title  string
	opts   grid.Options
	engine *grid.Engine
	saved  snapshot
	save   saveFunc
	logger *log.Logger

	selected string // id of the selected widget
	drag     *interact.Drag
	kind     interact.Kind
	px, py   int // pointer cell while moving
	pw, ph   int // requested size while resizing

	status      string
	modified    bool
	saves       int
	confirmQuit bool
}

func newEditorModel(title string, opts grid.Options, widgets []grid.Widget, layouts map[int][]grid.LayoutEntry, save saveFunc, logger *log.Logger) editorModel {
	m := editorModel{
		title:  title,
		opts:   opts,
		save:   save,
		logger: logger,
		saved:  snapshot{widgets: widgets, float: opts.Float, layouts: layouts},
	}
	m.engine = m.saved.engine(opts)
	if nodes := m.order(); len(nodes) > 0 {
		m.selected = nodes[0].ID
	}
	return m
}

// engine builds a fresh engine holding the snapshot.
func (s snapshot) engine(opts grid.Options) *grid.Engine {
	opts.Float = s.float
	e := grid.New(opts)
	if s.layouts != nil {
		e.SetLayoutCache(s.layouts)
	}
	e.Load(s.widgets, true)
	e.CleanNodes()
	e.SaveInitial()
	return e
}

// order returns the widgets in reading order.
func (m editorModel) order() []*grid.Node {
	nodes := m.engine.Nodes()
	grid.SortNodes(nodes, 1, m.engine.Column())
	return nodes
}

func (m editorModel) selectedNode() *grid.Node {
	if m.drag != nil && !m.drag.Done() {
		return m.drag.Active()
	}
	return m.engine.Node(m.selected)
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	k := key.String()
	if k != "q" {
		m.confirmQuit = false
	}
	switch k {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "q":
		if m.modified && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "unsaved changes, press q again to quit"
			return m, nil
		}
		m.cancel()
		return m, tea.Quit
	case "tab":
		m.drop()
		m.cycle(1)
	case "shift+tab":
		m.drop()
		m.cycle(-1)
	case "left":
		m.moveBy(-1, 0)
	case "right":
		m.moveBy(1, 0)
	case "up":
		m.moveBy(0, -1)
	case "down":
		m.moveBy(0, 1)
	case "shift+left":
		m.resizeBy(-1, 0)
	case "shift+right":
		m.resizeBy(1, 0)
	case "shift+up":
		m.resizeBy(0, -1)
	case "shift+down":
		m.resizeBy(0, 1)
	case "enter":
		m.drop()
	case "esc":
		if m.dragging() {
			m.cancel()
			m.status = "cancelled"
		}
	case "c":
		m.drop()
		m.apply("compacted", func(e *grid.Engine) { e.Compact() })
	case "f":
		m.drop()
		float := !m.engine.Float()
		mode := "gravity"
		if float {
			mode = "float"
		}
		m.apply(mode, func(e *grid.Engine) { e.SetFloat(float) })
	case "u":
		m.cancel()
		m.engine = m.saved.engine(m.opts)
		m.modified = false
		m.status = "reverted to the last save"
	case "s":
		m.drop()
		widgets := m.engine.Save(false)
		layouts := m.engine.LayoutCache()
		if err := m.save(widgets, m.engine.Float(), layouts); err != nil {
			m.status = "save failed: " + err.Error()
			return m, nil
		}
		m.saved = snapshot{widgets: widgets, float: m.engine.Float(), layouts: layouts}
		m.modified = false
		m.saves++
		m.status = "saved"
	}
	return m, nil
}

func (m *editorModel) dragging() bool {
	return m.drag != nil && !m.drag.Done()
}

func (m *editorModel) cycle(dir int) {
	nodes := m.order()
	if len(nodes) == 0 {
		return
	}
	i := 0
	for j, n := range nodes {
		if n.ID == m.selected {
			i = (j + dir + len(nodes)) % len(nodes)
			break
		}
	}
	m.selected = nodes[i].ID
	m.status = ""
}

// begin starts a gesture of kind on the selected widget unless one is
// already running. A running gesture of the other kind is dropped first.
func (m *editorModel) begin(kind interact.Kind) bool {
	if m.dragging() {
		if m.kind == kind {
			return true
		}
		m.drop()
	}
	n := m.engine.Node(m.selected)
	if n == nil {
		return false
	}
	d, err := interact.Start(m.engine, n, kind, m.logger)
	if err != nil {
		m.status = err.Error()
		return false
	}
	m.drag, m.kind = d, kind
	m.px, m.py = n.X, n.Y
	m.pw, m.ph = n.W, n.H
	return true
}

func (m *editorModel) moveBy(dx, dy int) {
	if !m.begin(interact.Move) {
		return
	}
	n := m.drag.Active()
	m.px = min(max(m.px+dx, 0), max(m.engine.Column()-n.W, 0))
	m.py = max(m.py+dy, 0)
	switch m.drag.MoveTo(m.px, m.py) {
	case interact.Moved:
		m.status = fmt.Sprintf("%s at %d,%d", n.ID, m.drag.Active().X, m.drag.Active().Y)
	case interact.Left:
		m.status = "outside the grid, move back or press esc"
	case interact.Entered:
		m.status = "back on the grid"
	default:
		m.status = "blocked"
	}
}

func (m *editorModel) resizeBy(dw, dh int) {
	if !m.begin(interact.Resize) {
		return
	}
	n := m.drag.Active()
	m.pw = min(max(m.pw+dw, 1), max(m.engine.Column()-n.X, 1))
	m.ph = max(m.ph+dh, 1)
	if m.drag.ResizeTo(m.pw, m.ph) == interact.Moved {
		m.status = fmt.Sprintf("%s is %dx%d", n.ID, n.W, n.H)
	} else {
		m.status = "blocked"
	}
}

// drop ends the running gesture, keeping its result.
func (m *editorModel) drop() {
	if !m.dragging() {
		return
	}
	changed, err := m.drag.Drop()
	if err != nil {
		m.status = err.Error()
		return
	}
	if len(changed) > 0 {
		m.modified = true
		m.status = fmt.Sprintf("dropped, %d changed", len(changed))
	}
}

// cancel ends the running gesture, undoing it.
func (m *editorModel) cancel() {
	if m.dragging() {
		m.drag.Cancel()
	}
}

// apply runs fn on the engine outside of a gesture and keeps the column
// cache in step with what changed.
func (m *editorModel) apply(status string, fn func(*grid.Engine)) {
	e := m.engine
	e.SaveInitial()
	fn(e)
	if changed := e.GetDirtyNodes(true); len(changed) > 0 {
		e.LayoutsNodesChange(changed)
		m.modified = true
	}
	e.CleanNodes()
	e.SaveInitial()
	m.status = status
}

func (m editorModel) View() string {
	var b strings.Builder

	mode := "gravity"
	if m.engine.Float() {
		mode = "float"
	}
	header := StyleTitle.Render(m.title) + " " +
		StyleDim.Render(fmt.Sprintf("%d columns, %s", m.engine.Column(), mode))
	if m.modified {
		header += " " + StyleWarning.Render("modified")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(editorHelp))
	b.WriteString("\n\n")

	nodes := m.order()
	widgets := make([]grid.Widget, len(nodes))
	selected := -1
	sel := m.selectedNode()
	for i, n := range nodes {
		widgets[i] = n.Widget
		if n == sel {
			selected = i
		}
	}
	var mark rune
	if selected >= 0 {
		mark = rune(widgetMarks[selected%len(widgetMarks)])
	}
	b.WriteString(styleGridMapSelected(renderGrid(widgets, m.engine.Column(), m.engine.MaxRow()), mark))
	b.WriteString("\n")
	b.WriteString(widgetTable(widgets, selected))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(StyleHighlight.Render(iconInfo + " " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}
