package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports/mocks"
)

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func seedImages(repo *mocks.MockImageRepository) {
	repo.AddFile("beach.jpg", 3000, baseTime.Add(2*time.Hour))
	repo.AddFile("Aurora.png", 1000, baseTime.Add(3*time.Hour))
	repo.AddFile("cat-10.gif", 2000, baseTime)
	repo.AddFile("cat-9.jpeg", 500, baseTime.Add(time.Hour))
}

func names(files []domain.ImageFile) string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return strings.Join(out, ",")
}

func TestListService_Execute(t *testing.T) {
	tests := []struct {
		name    string
		request ListRequest
		want    string
	}{
		{
			name:    "sort by name is case-insensitive and numeric",
			request: ListRequest{SortBy: "name"},
			want:    "Aurora.png,beach.jpg,cat-9.jpeg,cat-10.gif",
		},
		{
			name:    "default sort is name",
			request: ListRequest{},
			want:    "Aurora.png,beach.jpg,cat-9.jpeg,cat-10.gif",
		},
		{
			name:    "sort by size",
			request: ListRequest{SortBy: "size"},
			want:    "cat-9.jpeg,Aurora.png,cat-10.gif,beach.jpg",
		},
		{
			name:    "sort by date reversed",
			request: ListRequest{SortBy: "date", Reverse: true},
			want:    "Aurora.png,beach.jpg,cat-9.jpeg,cat-10.gif",
		},
		{
			name:    "filter jpg matches jpeg too",
			request: ListRequest{ExtFilter: "jpg", SortBy: "name"},
			want:    "beach.jpg,cat-9.jpeg",
		},
		{
			name:    "filter with dot and case",
			request: ListRequest{ExtFilter: ".PNG"},
			want:    "Aurora.png",
		},
		{
			name:    "query keeps requested sort",
			request: ListRequest{Query: "cat", SortBy: "size"},
			want:    "cat-9.jpeg,cat-10.gif",
		},
		{
			name:    "filter with no matches",
			request: ListRequest{ExtFilter: "webp"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockImageRepository("/photos")
			seedImages(repo)
			svc := NewListService(repo)

			resp, err := svc.Execute(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if got := names(resp.Images); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
			if resp.Total != len(resp.Images) {
				t.Errorf("Total = %d, want %d", resp.Total, len(resp.Images))
			}
			if resp.Root != "/photos" {
				t.Errorf("Root = %q, want /photos", resp.Root)
			}
		})
	}
}

func TestListService_EmptyFolder(t *testing.T) {
	svc := NewListService(mocks.NewMockImageRepository("/empty"))

	resp, err := svc.Execute(context.Background(), ListRequest{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("Total = %d, want 0", resp.Total)
	}
}

func TestListService_RepositoryError(t *testing.T) {
	repo := mocks.NewMockImageRepository("/broken")
	repo.SetError(errors.New("permission denied"))
	svc := NewListService(repo)

	if _, err := svc.Execute(context.Background(), ListRequest{}); err == nil {
		t.Error("expected error from repository to propagate")
	}
	if _, err := svc.Search(context.Background(), SearchRequest{Query: "x"}); err == nil {
		t.Error("expected error from repository to propagate in Search")
	}
}

func TestListService_Search(t *testing.T) {
	repo := mocks.NewMockImageRepository("/photos")
	seedImages(repo)
	svc := NewListService(repo)
	ctx := context.Background()

	tests := []struct {
		query     string
		wantFirst string
		wantTotal int
	}{
		{"beach", "beach.jpg", 1},
		{"cat", "cat-10.gif", 2},
		{"aur", "Aurora.png", 1},
		{"btch", "", 0},
		{"", "Aurora.png", 4},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := svc.Search(ctx, SearchRequest{Query: tt.query})
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if resp.Total != tt.wantTotal {
				t.Fatalf("Total = %d, want %d (%s)", resp.Total, tt.wantTotal, names(resp.Images))
			}
			if tt.wantTotal > 0 && resp.Images[0].Name != tt.wantFirst {
				t.Errorf("first = %q, want %q", resp.Images[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestListService_Resolve(t *testing.T) {
	repo := mocks.NewMockImageRepository("/photos")
	seedImages(repo)
	svc := NewListService(repo)
	ctx := context.Background()

	f, err := svc.Resolve(ctx, "/elsewhere/beach.jpg")
	if err != nil || f.Name != "beach.jpg" {
		t.Errorf("Resolve exact = %v, %v; want beach.jpg", f, err)
	}

	f, err = svc.Resolve(ctx, "auro")
	if err != nil || f.Name != "Aurora.png" {
		t.Errorf("Resolve fuzzy = %v, %v; want Aurora.png", f, err)
	}

	if _, err := svc.Resolve(ctx, "zzz"); err == nil {
		t.Error("Resolve with no match should fail")
	}
}

func TestFuzzyMatchScore(t *testing.T) {
	tests := []struct {
		text, query string
		wantMatch   bool
	}{
		{"sunset", "sunset", true},
		{"Sunset", "sunset", true},
		{"big-sunset", "sun", true},
		{"big-sunset", "bst", true},
		{"sunset", "xyz", false},
		{"", "a", false},
		{"a", "", false},
	}

	for _, tt := range tests {
		got := fuzzyMatchScore(tt.text, tt.query) > 0
		if got != tt.wantMatch {
			t.Errorf("fuzzyMatchScore(%q, %q) match = %v, want %v", tt.text, tt.query, got, tt.wantMatch)
		}
	}

	if fuzzyMatchScore("sunset", "sun") <= fuzzyMatchScore("big-sunset", "sun") {
		t.Error("prefix match should outrank inner substring match")
	}
}
