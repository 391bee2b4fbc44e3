package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/ports/mocks"
)

func TestHistogramService_Compute(t *testing.T) {
	svc := NewHistogramService(nil)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 10, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 10, 200, 0})
	img.SetNRGBA(2, 0, color.NRGBA{90, 20, 255, 255})

	h, err := svc.Compute(img)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if h.Pixels != 3 {
		t.Errorf("Pixels = %d, want 3", h.Pixels)
	}
	if h.Red[0] != 2 || h.Red[90] != 1 {
		t.Errorf("Red counts wrong: [0]=%d [90]=%d", h.Red[0], h.Red[90])
	}
	if h.Green[10] != 2 || h.Green[20] != 1 {
		t.Errorf("Green counts wrong: [10]=%d [20]=%d", h.Green[10], h.Green[20])
	}
	if h.Blue[255] != 2 || h.Blue[200] != 1 {
		t.Errorf("Blue counts wrong: [255]=%d [200]=%d", h.Blue[255], h.Blue[200])
	}

	total := 0
	for _, c := range h.Red {
		total += c
	}
	if total != h.Pixels {
		t.Errorf("Red bins sum to %d, want %d", total, h.Pixels)
	}
}

func TestHistogramService_ComputeEmpty(t *testing.T) {
	svc := NewHistogramService(nil)
	if _, err := svc.Compute(image.NewNRGBA(image.Rectangle{})); !errors.Is(err, domain.ErrEmptyImage) {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
}

func TestHistogramService_ReportAndRender(t *testing.T) {
	decoder := mocks.NewMockDecoder()
	decoder.AddImage("gray.png", onePixel(color.NRGBA{100, 100, 100, 255}))
	docs := NewDocumentService(decoder, mocks.NewMockEncoder(), nil)
	svc := NewHistogramService(docs.Engine())

	doc, err := docs.Open(context.Background(), "gray.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	docs.SetProperty(doc, domain.Contrast, 100)

	report, err := svc.Report(doc)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.Original.Red[100] != 1 || report.Edited.Red[72] != 1 {
		t.Errorf("report did not capture original/edited levels")
	}
	if report.Edited.Brightness != 72 {
		t.Errorf("edited brightness = %d, want 72", report.Edited.Brightness)
	}

	var buf bytes.Buffer
	if err := svc.Render(&buf, report); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not parseable HTML: %v", err)
	}

	if title := strings.TrimSpace(html.Find("title").First().Text()); title != "lumi histogram: gray.png" {
		t.Errorf("page title = %q", title)
	}

	scripts := html.Find("script").Text()
	for _, want := range []string{"Original", "Edited", "Red", "Green", "Blue", "Contrast 100"} {
		if !strings.Contains(scripts, want) {
			t.Errorf("chart options missing %q", want)
		}
	}
}
