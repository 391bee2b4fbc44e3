package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/preview"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var browseCmd = &cobra.Command{
	Use:     "browse [dir]",
	Aliases: []string{"b"},
	Short:   "Browse a folder and adjust images interactively (alias: b)",
	Long: `Launch a full-screen browser with a file list, a live preview and
brightness/contrast sliders.

Keyboard Shortcuts:
  ↑/k ↓/j     Select image
  g / G       First / last image
  tab         Switch between brightness and contrast
  ←/h →/l     Decrease / increase the focused slider
  r           Reset edits
  s           Save a copy (<name>-edited.<format>)
  y           Copy the image path
  /           Search
  ?           Help
  q           Quit

The list refreshes automatically when files are added or removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		imageRepo.SetRoot(args[0])
	}
	ctx := getContext()

	resp, err := listService.Execute(ctx, services.ListRequest{
		SortBy:  appConfig.DefaultSort,
		Reverse: appConfig.ReverseSort,
	})
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	m := newBrowseModel(ctx, resp.Images)
	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := watchFolder(imageRepo.Root(), func() { p.Send(imagesChangedMsg{}) })
	if err != nil {
		log.Printf("browse: folder watching disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}

// watchFolder calls onChange (debounced) whenever an image in dir is created, removed or renamed
func watchFolder(dir string, onChange func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !imageRepo.Accepts(filepath.Base(event.Name)) {
					continue
				}
				if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, onChange)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("browse: watcher error: %v", err)
			}
		}
	}()
	return watcher, nil
}

type browseMode int

const (
	browseList browseMode = iota
	browseSearch
	browseHelp
)

const browseListWidth = 32

type browseModel struct {
	ctx      context.Context
	images   []domain.ImageFile
	filtered []domain.ImageFile
	cursor   int
	offset   int
	mode     browseMode
	search   textinput.Model
	help     help.Model
	keys     browseKeyMap
	width    int
	height   int
	ready    bool

	doc      *domain.Document
	loading  string
	focus    domain.PropertyID
	preview  string
	steps    map[domain.PropertyID]int
	message  string
	msgStyle lipgloss.Style
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Focus    key.Binding
	Increase key.Binding
	Decrease key.Binding
	Reset    key.Binding
	Save     key.Binding
	Copy     key.Binding
	Search   key.Binding
	Help     key.Binding
	Escape   key.Binding
	Quit     key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Focus, k.Decrease, k.Increase, k.Save, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Focus, k.Decrease, k.Increase, k.Reset},
		{k.Save, k.Copy, k.Search, k.Help, k.Escape, k.Quit},
	}
}

var browseKeys = browseKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
	Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
	Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch slider")),
	Increase: key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/l", "increase")),
	Decrease: key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/h", "decrease")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save copy")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Messages
type docLoadedMsg struct {
	path string
	doc  *domain.Document
	err  error
}

type imagesChangedMsg struct{}

type browseStatusMsg struct {
	text  string
	style lipgloss.Style
}

func newBrowseModel(ctx context.Context, images []domain.ImageFile) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Search images..."
	ti.CharLimit = 100
	ti.Width = browseListWidth - 4

	bStep, cStep := 5, 5
	if appConfig != nil {
		bStep, cStep = appConfig.BrightnessStep, appConfig.ContrastStep
	}

	loading := ""
	if len(images) > 0 {
		loading = images[0].Path
	}

	return browseModel{
		ctx:      ctx,
		loading:  loading,
		images:   images,
		filtered: images,
		mode:     browseList,
		search:   ti,
		help:     help.New(),
		keys:     browseKeys,
		focus:    domain.Brightness,
		steps: map[domain.PropertyID]int{
			domain.Brightness: bStep,
			domain.Contrast:   cStep,
		},
	}
}

func (m browseModel) Init() tea.Cmd {
	if m.loading != "" {
		return loadDocument(m.ctx, m.loading)
	}
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.renderPreview()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case browseSearch:
			return m.updateSearch(msg)
		case browseHelp:
			return m.updateHelp(msg)
		default:
			return m.updateList(msg)
		}

	case docLoadedMsg:
		if msg.path != m.loading {
			return m, nil
		}
		m.loading = ""
		if msg.err != nil {
			m.doc = nil
			m.preview = ""
			m.setStatus(msg.err.Error(), ui.StyleError)
			return m, nil
		}
		m.doc = msg.doc
		m.renderPreview()
		return m, nil

	case imagesChangedMsg:
		return m.reloadImages()

	case browseStatusMsg:
		m.message = msg.text
		m.msgStyle = msg.style
		return m, nil
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			return m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			return m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Top):
		if len(m.filtered) > 0 && m.cursor != 0 {
			m.cursor = 0
			return m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Bottom):
		if last := len(m.filtered) - 1; last >= 0 && m.cursor != last {
			m.cursor = last
			return m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Focus):
		if m.focus == domain.Brightness {
			m.focus = domain.Contrast
		} else {
			m.focus = domain.Brightness
		}

	case key.Matches(msg, m.keys.Increase):
		m.nudge(m.steps[m.focus])

	case key.Matches(msg, m.keys.Decrease):
		m.nudge(-m.steps[m.focus])

	case key.Matches(msg, m.keys.Reset):
		if m.doc != nil {
			documentService.Reset(m.doc)
			m.renderPreview()
			m.setStatus("Edits reset", ui.StyleInfo)
		}

	case key.Matches(msg, m.keys.Save):
		if m.doc != nil {
			return m, saveDocument(m.ctx, m.doc)
		}

	case key.Matches(msg, m.keys.Copy):
		if f, ok := m.selected(); ok {
			return m, copyPath(f.Path)
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = browseSearch
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = browseHelp
	}

	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = browseList
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m.selectionChanged()

	case msg.Type == tea.KeyEnter:
		m.mode = browseList
		m.search.Blur()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			return m.selectionChanged()
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			return m.selectionChanged()
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.applySearch()
	next, loadCmd := m.selectionChanged()
	return next, tea.Batch(cmd, loadCmd)
}

func (m browseModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = browseList
	}
	return m, nil
}

// selectionChanged drops the current document and starts loading the selected one
func (m browseModel) selectionChanged() (tea.Model, tea.Cmd) {
	m.adjustOffset()
	f, ok := m.selected()
	if !ok {
		m.doc = nil
		m.loading = ""
		m.preview = ""
		return m, nil
	}
	if m.doc != nil && m.doc.Path == f.Path {
		return m, nil
	}
	m.doc = nil
	m.preview = ""
	m.loading = f.Path
	return m, loadDocument(m.ctx, f.Path)
}

func (m browseModel) reloadImages() (tea.Model, tea.Cmd) {
	resp, err := listService.Execute(m.ctx, services.ListRequest{
		SortBy:  appConfig.DefaultSort,
		Reverse: appConfig.ReverseSort,
	})
	if err != nil {
		m.setStatus("Reload failed: "+err.Error(), ui.StyleError)
		return m, nil
	}

	current := ""
	if f, ok := m.selected(); ok {
		current = f.Name
	}

	m.images = resp.Images
	m.applySearch()
	for i, f := range m.filtered {
		if f.Name == current {
			m.cursor = i
			break
		}
	}
	m.setStatus(fmt.Sprintf("Folder changed (%d images)", len(m.images)), ui.StyleMuted)
	return m.selectionChanged()
}

func (m *browseModel) applySearch() {
	query := strings.TrimSpace(m.search.Value())
	if query == "" {
		m.filtered = m.images
	} else {
		resp, err := listService.Search(m.ctx, services.SearchRequest{Query: query})
		if err != nil {
			m.filtered = nil
		} else {
			m.filtered = resp.Images
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m browseModel) selected() (domain.ImageFile, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return domain.ImageFile{}, false
	}
	return m.filtered[m.cursor], true
}

// nudge moves the focused property by delta and recomputes the edited image
func (m *browseModel) nudge(delta int) {
	if m.doc == nil {
		return
	}
	value := m.doc.PropertyValue(m.focus) + delta
	if err := documentService.SetProperty(m.doc, m.focus, value); err != nil {
		m.setStatus(err.Error(), ui.StyleError)
		return
	}
	m.renderPreview()
}

func (m *browseModel) setStatus(text string, style lipgloss.Style) {
	m.message = text
	m.msgStyle = style
}

func (m *browseModel) listRows() int {
	rows := m.height - 9
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *browseModel) adjustOffset() {
	rows := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *browseModel) renderPreview() {
	if m.doc == nil || !m.ready {
		m.preview = ""
		return
	}
	cols := m.width - browseListWidth - 4
	if appConfig != nil && appConfig.PreviewWidth > 0 && appConfig.PreviewWidth < cols {
		cols = appConfig.PreviewWidth
	}
	m.preview = preview.String(m.doc.Edited(), cols, m.listRows())
}

func (m browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == browseHelp {
		return m.viewHelp()
	}

	header := ui.StyleHeader.Render(fmt.Sprintf("%s lumi  %s", ui.IconImage, imageRepoRoot()))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(browseListWidth).Render(m.renderList()),
		"  ",
		m.renderPreviewPane(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.renderSearchBar(),
		body,
		"",
		m.renderSliders(),
		m.renderFooter(),
	)
}

func (m browseModel) renderSearchBar() string {
	if m.mode == browseSearch {
		return m.search.View()
	}
	if q := m.search.Value(); q != "" {
		return ui.FormatMuted("filter: " + q)
	}
	return ""
}

func (m browseModel) renderList() string {
	if len(m.filtered) == 0 {
		return ui.FormatMuted("No images")
	}

	var b strings.Builder
	end := m.offset + m.listRows()
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		name := truncate(m.filtered[i].Name, browseListWidth-3)
		if i == m.cursor {
			b.WriteString(ui.StyleSelected.Render("▶ " + name))
		} else {
			b.WriteString("  " + name)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m browseModel) renderPreviewPane() string {
	switch {
	case m.loading != "":
		return ui.FormatMuted("Loading " + filepath.Base(m.loading) + "...")
	case m.doc == nil:
		return ui.FormatMuted("No image selected")
	default:
		return m.preview
	}
}

func (m browseModel) renderSliders() string {
	width := m.width - 24
	if width > 50 {
		width = 50
	}
	if width < 10 {
		width = 10
	}

	props := domain.DefaultProperties().All()
	if m.doc != nil {
		props = m.doc.Properties()
	}

	lines := make([]string, 0, len(props))
	for _, p := range props {
		icon := ui.IconSun
		if p.ID == domain.Contrast {
			icon = ui.IconContrast
		}
		lines = append(lines, ui.Slider{
			Label:   p.Name,
			Icon:    icon,
			Min:     p.Min,
			Max:     p.Max,
			Value:   p.Value,
			Width:   width,
			Focused: p.ID == m.focus,
		}.Render())
	}
	return strings.Join(lines, "\n")
}

func (m browseModel) renderFooter() string {
	status := ""
	if m.message != "" {
		status = m.msgStyle.Render(m.message) + "  "
	}
	return status + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m browseModel) viewHelp() string {
	return ui.StylePanel.Render(
		ui.FormatTitle("Keyboard shortcuts") + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()),
	)
}

func imageRepoRoot() string {
	if imageRepo == nil {
		return ""
	}
	return imageRepo.Root()
}

// Commands

func loadDocument(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := documentService.Open(ctx, path)
		return docLoadedMsg{path: path, doc: doc, err: err}
	}
}

func saveDocument(ctx context.Context, doc *domain.Document) tea.Cmd {
	return func() tea.Msg {
		output := defaultOutputPath(doc.Path, appConfig.OutputFormat)
		err := documentService.Save(ctx, doc, services.SaveRequest{Output: output, Overwrite: true})
		if err != nil {
			return browseStatusMsg{text: err.Error(), style: ui.StyleError}
		}
		return browseStatusMsg{text: ui.IconSaved + " Saved " + filepath.Base(output), style: ui.StyleSuccess}
	}
}

func copyPath(path string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return browseStatusMsg{text: "Clipboard access failed", style: ui.StyleWarning}
		}
		return browseStatusMsg{text: "Copied " + path, style: ui.StyleInfo}
	}
}
