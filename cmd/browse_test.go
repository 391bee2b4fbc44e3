package cmd

import (
	"context"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/config"
)

// setupBrowseTest wires the package-level services against mocks
func setupBrowseTest(t *testing.T, n int) []domain.ImageFile {
	t.Helper()

	repo := mocks.NewMockImageRepository("/pics")
	dec := mocks.NewMockDecoder()
	images := make([]domain.ImageFile, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("img-%02d.png", i)
		images = append(images, repo.AddFile(name, int64(100*(i+1)), time.Now()))

		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = 100, 100, 100, 255
		}
		dec.AddImage("/pics/"+name, img)
	}

	prevCfg, prevList, prevDocs := appConfig, listService, documentService
	t.Cleanup(func() {
		appConfig, listService, documentService = prevCfg, prevList, prevDocs
	})

	appConfig = config.DefaultConfig()
	listService = services.NewListService(repo)
	documentService = services.NewDocumentService(dec, mocks.NewMockEncoder(), nil)
	return images
}

func loadedModel(t *testing.T, images []domain.ImageFile) browseModel {
	t.Helper()
	m := newBrowseModel(context.Background(), images)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(browseModel)

	doc, err := documentService.Open(context.Background(), images[0].Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	updated, _ = m.Update(docLoadedMsg{path: images[0].Path, doc: doc})
	return updated.(browseModel)
}

func TestBrowseModelInitialization(t *testing.T) {
	images := setupBrowseTest(t, 3)
	m := newBrowseModel(context.Background(), images)

	if len(m.filtered) != 3 || m.cursor != 0 || m.mode != browseList {
		t.Errorf("unexpected initial state: %d filtered, cursor %d, mode %v", len(m.filtered), m.cursor, m.mode)
	}
	if m.loading != images[0].Path {
		t.Errorf("loading = %q, want first image", m.loading)
	}
	if m.focus != domain.Brightness {
		t.Errorf("focus = %v, want brightness", m.focus)
	}
	if m.Init() == nil {
		t.Error("Init() should load the first image")
	}
	if m.ready {
		t.Error("model should not be ready before the first WindowSizeMsg")
	}
}

func TestBrowseDocLoaded(t *testing.T) {
	images := setupBrowseTest(t, 2)
	m := loadedModel(t, images)

	if m.doc == nil || m.loading != "" {
		t.Fatalf("document not attached: doc=%v loading=%q", m.doc, m.loading)
	}
	if m.preview == "" {
		t.Error("preview should be rendered once the document is loaded")
	}

	// A stale load for another path is ignored
	updated, _ := m.Update(docLoadedMsg{path: "/pics/other.png", err: fmt.Errorf("boom")})
	m = updated.(browseModel)
	if m.doc == nil || m.message != "" {
		t.Error("stale load result must not replace the document")
	}
}

func TestBrowseNavigation(t *testing.T) {
	images := setupBrowseTest(t, 3)
	m := loadedModel(t, images)

	updated, cmd := m.updateList(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(browseModel)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if cmd == nil || m.loading != images[1].Path || m.doc != nil {
		t.Error("moving the cursor should start loading the next image")
	}

	// Boundaries
	m.cursor = 2
	updated, _ = m.updateList(tea.KeyMsg{Type: tea.KeyDown})
	if updated.(browseModel).cursor != 2 {
		t.Error("cursor should stay on the last image")
	}
	m.cursor = 0
	updated, _ = m.updateList(tea.KeyMsg{Type: tea.KeyUp})
	if updated.(browseModel).cursor != 0 {
		t.Error("cursor should stay on the first image")
	}
}

func TestBrowseSliders(t *testing.T) {
	images := setupBrowseTest(t, 1)
	m := loadedModel(t, images)

	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	tab := tea.KeyMsg{Type: tea.KeyTab}

	updated, _ := m.updateList(right)
	m = updated.(browseModel)
	if got := m.doc.PropertyValue(domain.Brightness); got != 55 {
		t.Errorf("brightness = %d, want 55", got)
	}
	if !m.doc.HasEdits() {
		t.Error("document should have edits after a slider change")
	}

	updated, _ = m.updateList(tab)
	m = updated.(browseModel)
	if m.focus != domain.Contrast {
		t.Fatalf("focus = %v, want contrast", m.focus)
	}

	for i := 0; i < 20; i++ {
		updated, _ = m.updateList(left)
		m = updated.(browseModel)
	}
	if got := m.doc.PropertyValue(domain.Contrast); got != 0 {
		t.Errorf("contrast = %d, want clamped 0", got)
	}

	updated, _ = m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(browseModel)
	if m.doc.HasEdits() {
		t.Error("reset should clear edits")
	}
	if m.doc.PropertyValue(domain.Contrast) != domain.NeutralValue {
		t.Error("reset should restore default contrast")
	}
}

func TestBrowseSearch(t *testing.T) {
	images := setupBrowseTest(t, 12)
	m := loadedModel(t, images)

	updated, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(browseModel)
	if m.mode != browseSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}

	for _, r := range "11" {
		updated, _ = m.updateSearch(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(browseModel)
	}
	if len(m.filtered) == 0 || m.filtered[0].Name != "img-11.png" {
		t.Errorf("filtered = %v, want img-11.png first", m.filtered)
	}

	updated, _ = m.updateSearch(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(browseModel)
	if m.mode != browseList || len(m.filtered) != 12 {
		t.Errorf("escape should clear the search: mode %v, %d images", m.mode, len(m.filtered))
	}
}

func TestBrowseHelpToggle(t *testing.T) {
	images := setupBrowseTest(t, 1)
	m := loadedModel(t, images)

	updated, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(browseModel)
	if m.mode != browseHelp {
		t.Fatalf("mode = %v, want help", m.mode)
	}
	if !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Error("help view should list shortcuts")
	}

	updated, _ = m.updateHelp(tea.KeyMsg{Type: tea.KeyEsc})
	if updated.(browseModel).mode != browseList {
		t.Error("escape should close help")
	}
}

func TestBrowseView(t *testing.T) {
	images := setupBrowseTest(t, 2)
	m := loadedModel(t, images)

	view := m.View()
	for _, want := range []string{"img-00.png", "img-01.png", "Brightness", "Contrast"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestBrowseQuit(t *testing.T) {
	images := setupBrowseTest(t, 1)
	m := loadedModel(t, images)

	_, cmd := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
