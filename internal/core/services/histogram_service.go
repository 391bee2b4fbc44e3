package services

import (
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

// Histogram holds per-channel level counts for one raster
type Histogram struct {
	Red        [256]int
	Green      [256]int
	Blue       [256]int
	Brightness int // mean of (R+G+B)/3
	Pixels     int
}

// HistogramReport compares the original and edited images of a document
type HistogramReport struct {
	Name       string
	Properties []domain.Property
	Original   *Histogram
	Edited     *Histogram
}

// HistogramService computes and renders channel histograms
type HistogramService struct {
	engine *AdjustEngine
}

// NewHistogramService creates a new histogram service
func NewHistogramService(engine *AdjustEngine) *HistogramService {
	if engine == nil {
		engine = NewAdjustEngine()
	}
	return &HistogramService{engine: engine}
}

// Compute counts channel levels over every pixel of img
func (s *HistogramService) Compute(img *image.NRGBA) (*Histogram, error) {
	brightness, err := s.engine.MeasureBrightness(img)
	if err != nil {
		return nil, err
	}

	h := &Histogram{Brightness: brightness}
	b := img.Rect
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		line := img.Pix[off : off+w*4]
		for x := 0; x < len(line); x += 4 {
			h.Red[line[x]]++
			h.Green[line[x+1]]++
			h.Blue[line[x+2]]++
		}
	}
	h.Pixels = w * b.Dy()
	return h, nil
}

// Report builds the original vs edited comparison for doc
func (s *HistogramService) Report(doc *domain.Document) (*HistogramReport, error) {
	orig, err := s.Compute(doc.Original())
	if err != nil {
		return nil, fmt.Errorf("failed to measure original: %w", err)
	}
	edited, err := s.Compute(doc.Edited())
	if err != nil {
		return nil, fmt.Errorf("failed to measure edited image: %w", err)
	}

	return &HistogramReport{
		Name:       doc.Name,
		Properties: doc.Properties(),
		Original:   orig,
		Edited:     edited,
	}, nil
}

// Render writes the report as a standalone HTML page with one chart per image
func (s *HistogramService) Render(w io.Writer, report *HistogramReport) error {
	page := components.NewPage()
	page.PageTitle = "lumi histogram: " + report.Name

	subtitle := ""
	for i, p := range report.Properties {
		if i > 0 {
			subtitle += ", "
		}
		subtitle += fmt.Sprintf("%s %d", p.Name, p.Value)
	}

	page.AddCharts(
		histogramChart("Original", fmt.Sprintf("average brightness %d", report.Original.Brightness), report.Original),
		histogramChart("Edited", fmt.Sprintf("%s; average brightness %d", subtitle, report.Edited.Brightness), report.Edited),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	return nil
}

func histogramChart(title, subtitle string, h *Histogram) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "360px"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	levels := make([]string, 256)
	for i := range levels {
		levels[i] = strconv.Itoa(i)
	}

	line.SetXAxis(levels).
		AddSeries("Red", lineData(h.Red[:]), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"})).
		AddSeries("Green", lineData(h.Green[:]), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2ca02c"})).
		AddSeries("Blue", lineData(h.Blue[:]), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f77b4"}))

	return line
}

func lineData(counts []int) []opts.LineData {
	data := make([]opts.LineData, len(counts))
	for i, c := range counts {
		data[i] = opts.LineData{Value: c}
	}
	return data
}
