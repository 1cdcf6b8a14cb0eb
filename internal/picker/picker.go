// Package picker is a small bubbletea list for choosing a bookmark when no
// selector was given on the command line.
package picker

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/dm/internal/model"
	"github.com/nikbrunner/dm/internal/search"
)

// Lines taken by the title, the filter line and the hint footer.
const chromeLines = 5

// Bold+underline on and off, leaving the row's colors alone.
const (
	matchOn  = "\033[1;4m"
	matchOff = "\033[22;24m"
)

// Picker is a TUI for selecting one bookmark from a snapshot.
type Picker struct {
	bookmarks []model.Bookmark
	items     []model.Bookmark // bookmarks matching the current filter
	matched   [][]int          // per item, byte indexes into search.Haystack
	query     string

	keys   KeyMap
	styles Styles
	filter textinput.Model

	filtering bool
	cursor    int
	chosen    bool
	cancelled bool
	width     int
	height    int
}

// Params holds parameters for creating a new Picker.
type Params struct {
	Bookmarks []model.Bookmark
	Keys      *KeyMap // optional, uses default if nil
	Styles    *Styles // optional, uses default if nil
}

// New creates a new Picker over the given bookmarks.
func New(params Params) Picker {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "filter..."
	filter.CharLimit = 100

	return Picker{
		bookmarks: params.Bookmarks,
		items:     params.Bookmarks,
		keys:      keys,
		styles:    styles,
		filter:    filter,
		width:     80,
		height:    24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, p.keys.Abort) {
			p.cancelled = true
			return p, tea.Quit
		}
		if p.filtering {
			return p.updateFilter(msg)
		}
		return p.updateNormal(msg)
	}

	return p, nil
}

func (p Picker) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)
	case key.Matches(msg, p.keys.Top):
		p.cursor = 0
	case key.Matches(msg, p.keys.Bottom):
		p.cursor = max(len(p.items)-1, 0)
	case key.Matches(msg, p.keys.Filter):
		p.filtering = true
		return p, p.filter.Focus()
	case key.Matches(msg, p.keys.Choose):
		return p.choose()
	case key.Matches(msg, p.keys.Quit):
		p.cancelled = true
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Choose):
		return p.choose()
	case key.Matches(msg, p.keys.FilterClear):
		p.filtering = false
		p.filter.Blur()
		p.filter.Reset()
		p.applyFilter()
		return p, nil
	case key.Matches(msg, p.keys.FilterUp):
		p.moveCursor(-1)
		return p, nil
	case key.Matches(msg, p.keys.FilterDown):
		p.moveCursor(1)
		return p, nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.applyFilter()
	return p, cmd
}

func (p *Picker) moveCursor(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.items) {
		p.cursor = len(p.items) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// applyFilter recomputes the visible items from the filter input.
// Matches are ordered best first.
func (p *Picker) applyFilter() {
	query := strings.TrimSpace(p.filter.Value())
	if query == p.query {
		return
	}
	p.query = query
	p.cursor = 0

	if query == "" {
		p.items = p.bookmarks
		p.matched = nil
		return
	}

	results := search.FuzzySearchBookmarks(p.bookmarks, query)
	p.items = make([]model.Bookmark, len(results))
	p.matched = make([][]int, len(results))
	for i, r := range results {
		p.items[i] = r.Bookmark
		p.matched[i] = r.MatchedIndexes
	}
}

func (p Picker) choose() (tea.Model, tea.Cmd) {
	if len(p.items) == 0 {
		return p, nil
	}
	p.chosen = true
	return p, tea.Quit
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Bookmarks (%d)", len(p.bookmarks))
	if p.query != "" {
		title = fmt.Sprintf("Bookmarks (%d/%d)", len(p.items), len(p.bookmarks))
	}
	b.WriteString(p.styles.Title.Render(title))
	b.WriteString("\n")

	switch {
	case p.filtering:
		b.WriteString("/" + p.filter.View())
	case p.query != "":
		b.WriteString(p.styles.Path.Render("/" + p.query))
	}
	b.WriteString("\n")

	if len(p.items) == 0 {
		msg := "No bookmarks"
		if p.query != "" {
			msg = "No matches"
		}
		b.WriteString(p.styles.Empty.Render(msg))
		b.WriteString("\n")
	}

	numWidth := len(strconv.Itoa(len(p.bookmarks)))
	start, end := visibleRange(max(p.height-chromeLines, 1), p.cursor, len(p.items))
	for i := start; i < end; i++ {
		var matched []int
		if i < len(p.matched) {
			matched = p.matched[i]
		}
		b.WriteString(p.renderItem(p.items[i], matched, i == p.cursor, numWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderHints())
	return b.String()
}

func (p Picker) renderItem(bm model.Bookmark, matched []int, selected bool, numWidth int) string {
	marker := " "
	if bm.IsQuick {
		marker = "*"
	}
	no := fmt.Sprintf("%*d", numWidth, bm.No)

	// padding + number + marker + separators
	avail := p.width - numWidth - 5
	name := bm.Name
	path := bm.Path
	if name != "" {
		avail -= utf8.RuneCountInString(name) + 2
	}
	path = truncateLeft(path, max(avail, 10))

	if len(matched) > 0 {
		set := make(map[int]bool, len(matched))
		for _, idx := range matched {
			set[idx] = true
		}
		pathOffset := 0
		if name != "" {
			name = highlightMatches(name, 0, set)
			pathOffset = len(bm.Name) + 1
		}
		path = highlightPath(bm.Path, path, pathOffset, set)
	}

	if selected {
		line := no + marker + " "
		if name != "" {
			line += name + "  "
		}
		return p.styles.ItemSelected.Render(line + path)
	}

	line := p.styles.Number.Render(no) + p.styles.Quick.Render(marker) + " "
	if name != "" {
		line += name + "  " + p.styles.Path.Render(path)
	} else {
		line += path
	}
	return p.styles.Item.Render(line)
}

// highlightMatches marks the runes of s whose byte index, shifted by offset,
// is in matched.
func highlightMatches(s string, offset int, matched map[int]bool) string {
	var b strings.Builder
	for i, r := range s {
		if matched[offset+i] {
			b.WriteString(matchOn)
			b.WriteRune(r)
			b.WriteString(matchOff)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// highlightPath highlights a possibly left-truncated rendering of full.
func highlightPath(full, shown string, offset int, matched map[int]bool) string {
	kept, truncated := strings.CutPrefix(shown, ellipsis)
	if !truncated || !strings.HasSuffix(full, kept) {
		return highlightMatches(shown, offset, matched)
	}
	return ellipsis + highlightMatches(kept, offset+len(full)-len(kept), matched)
}

func (p Picker) renderHints() string {
	bindings := []key.Binding{p.keys.Up, p.keys.Filter, p.keys.Choose, p.keys.Quit}
	if p.filtering {
		bindings = []key.Binding{p.keys.Choose, p.keys.FilterClear}
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, p.styles.HintKey.Render(h.Key)+" "+p.styles.HintDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// SelectedBookmark returns the chosen bookmark. ok is false if the user
// cancelled or nothing was chosen.
func (p Picker) SelectedBookmark() (b model.Bookmark, ok bool) {
	if p.cancelled || !p.chosen || p.cursor >= len(p.items) {
		return model.Bookmark{}, false
	}
	return p.items[p.cursor], true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Run shows the picker on stderr, leaving stdout free for the chosen path,
// and blocks until the user chooses or cancels.
func Run(bookmarks []model.Bookmark) (model.Bookmark, bool, error) {
	program := tea.NewProgram(New(Params{Bookmarks: bookmarks}), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return model.Bookmark{}, false, fmt.Errorf("failed to run picker: %w", err)
	}

	b, ok := final.(Picker).SelectedBookmark()
	return b, ok, nil
}
