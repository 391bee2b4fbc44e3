package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports"
)

// ListService handles listing and filtering image files in a folder
type ListService struct {
	imageRepo ports.ImageRepository
}

// NewListService creates a new list service
func NewListService(imageRepo ports.ImageRepository) *ListService {
	return &ListService{
		imageRepo: imageRepo,
	}
}

// ListRequest represents a request to list images
type ListRequest struct {
	ExtFilter string // Only this extension, e.g. "png" (optional)
	SortBy    string // "name", "size", "date" (default: name)
	Reverse   bool   // Reverse sort order
	Query     string // Fuzzy name filter; matches keep the requested sort order (optional)
}

// ListResponse represents the response from listing images
type ListResponse struct {
	Images []domain.ImageFile
	Total  int
	Root   string
}

// Execute lists images with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	files, err := s.imageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	if req.ExtFilter != "" {
		files = s.filterByExt(files, req.ExtFilter)
	}

	if q := strings.TrimSpace(req.Query); q != "" {
		files = s.fuzzySearch(files, q)
	}

	files = s.sortFiles(files, req.SortBy, req.Reverse)

	return &ListResponse{
		Images: files,
		Total:  len(files),
		Root:   s.imageRepo.Root(),
	}, nil
}

func (s *ListService) filterByExt(files []domain.ImageFile, ext string) []domain.ImageFile {
	ext = domain.NormalizeExt(ext)
	// jpg and jpeg are the same format
	alias := map[string]string{".jpeg": ".jpg", ".tiff": ".tif"}
	canon := func(e string) string {
		if a, ok := alias[e]; ok {
			return a
		}
		return e
	}

	var filtered []domain.ImageFile
	for _, f := range files {
		if canon(f.Ext) == canon(ext) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func (s *ListService) sortFiles(files []domain.ImageFile, sortBy string, reverse bool) []domain.ImageFile {
	col := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)

	sort.SliceStable(files, func(i, j int) bool {
		var cmp int
		switch sortBy {
		case "size":
			cmp = compareInt64(files[i].Size, files[j].Size)
		case "date":
			cmp = compareInt64(files[i].ModTime.UnixNano(), files[j].ModTime.UnixNano())
		}
		if cmp == 0 {
			cmp = col.CompareString(files[i].Name, files[j].Name)
		}
		if reverse {
			return cmp > 0
		}
		return cmp < 0
	})
	return files
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Resolve finds a single image by exact name, then by best fuzzy match
func (s *ListService) Resolve(ctx context.Context, query string) (*domain.ImageFile, error) {
	if f, err := s.imageRepo.Get(ctx, filepath.Base(query)); err == nil {
		return f, nil
	}

	resp, err := s.Search(ctx, SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	if resp.Total == 0 {
		return nil, fmt.Errorf("no image matches %q", query)
	}
	return &resp.Images[0], nil
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
}

// SearchResponse represents search results
type SearchResponse struct {
	Images []domain.ImageFile
	Total  int
}

// Search performs fuzzy search on image file names
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	files, err := s.imageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	if strings.TrimSpace(req.Query) == "" {
		files = s.sortFiles(files, "name", false)
		return &SearchResponse{
			Images: files,
			Total:  len(files),
		}, nil
	}

	matches := s.fuzzySearch(files, req.Query)

	return &SearchResponse{
		Images: matches,
		Total:  len(matches),
	}, nil
}

// Match tiers. Any exact or substring match outranks every subsequence match.
const (
	scoreExact      = 10000
	scoreExactFold  = 9000
	scorePrefix     = 7000
	scoreSubstring  = 5000
	scoreStemBonus  = 500
	scorePerRune    = 100
	scoreRunStep    = 50
	scoreWordStart  = 200
	scoreNameStart  = 300
	scoreGapPenalty = 10
)

type rankedFile struct {
	file  domain.ImageFile
	score int
}

// fuzzySearch ranks files by how well query matches, preferring the name without extension
func (s *ListService) fuzzySearch(files []domain.ImageFile, query string) []domain.ImageFile {
	query = strings.TrimSpace(query)

	ranked := make([]rankedFile, 0, len(files))
	for _, f := range files {
		stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		score := fuzzyMatchScore(stem, query)
		if score > 0 {
			score += scoreStemBonus
		} else {
			score = fuzzyMatchScore(f.Name, query)
		}
		if score > 0 {
			ranked = append(ranked, rankedFile{file: f, score: score})
		}
	}

	slices.SortStableFunc(ranked, func(a, b rankedFile) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return strings.Compare(a.file.Name, b.file.Name)
	})

	out := make([]domain.ImageFile, len(ranked))
	for i, r := range ranked {
		out[i] = r.file
	}
	return out
}

// fuzzyMatchScore returns 0 when query does not match text, otherwise a positive score.
// Below the substring tiers every query rune must appear in order; runs of adjacent
// runes and runes that start a word score extra, gaps cost a little.
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}
	switch {
	case text == query:
		return scoreExact
	case strings.EqualFold(text, query):
		return scoreExactFold
	}

	lt, lq := strings.ToLower(text), strings.ToLower(query)
	if strings.HasPrefix(lt, lq) {
		return scorePrefix
	}
	if strings.Contains(lt, lq) {
		return scoreSubstring
	}

	t, q := []rune(lt), []rune(lq)
	score, run, qi, last := 0, 0, 0, -1
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			continue
		}
		if ti == last+1 {
			run++
		} else {
			run = 0
		}
		score += scorePerRune + run*scoreRunStep
		switch {
		case ti == 0:
			score += scoreWordStart + scoreNameStart
		case isWordBoundary(t[ti-1]):
			score += scoreWordStart
		}
		last = ti
		qi++
	}
	if qi < len(q) {
		return 0
	}

	score -= (last + 1 - len(q)) * scoreGapPenalty
	return max(score, 1)
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
