package timeline

import (
	"time"

	"gonum.org/v1/plot"
)

// PlotEntities lays out and renders the most mentioned entities per day.
// Every row's date reserves an x tick, even when none of its entities
// survive filtering or ranking.
func PlotEntities(rows []EntityRow, filter []string, maxRank int, yTitle string, opts Options) (*plot.Plot, Figure, error) {
	dates := make([]time.Time, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}
	opts = opts.withDefaults()

	fig := Layout(AggregateEntities(rows, filter), NewAxis(dates), maxRank, len(opts.Palette), opts)
	p, err := Render(fig, RenderOptions{YTitle: yTitle})
	if err != nil {
		return nil, Figure{}, err
	}
	return p, fig, nil
}

// PlotTopics lays out and renders the highest-weighted topics per day.
// topics may be nil to use every topic present.
func PlotTopics(rows []TopicRow, topics []string, maxRank int, yTitle string, opts Options) (*plot.Plot, Figure, error) {
	dates := make([]time.Time, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}

	fig := Layout(AggregateTopics(rows, topics), NewAxis(dates), maxRank, TopicBins, opts)
	p, err := Render(fig, RenderOptions{YTitle: yTitle})
	if err != nil {
		return nil, Figure{}, err
	}
	return p, fig, nil
}
