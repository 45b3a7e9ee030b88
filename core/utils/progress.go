package utils

import (
	"bytes"
	"expvar"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Iteration records timing and the log-likelihood of one sampling
// sweep, for the HTTP status page.
type Iteration struct {
	StartTime     time.Time
	Duration      time.Duration
	LogLikelihood float64
}

type Iterations []*Iteration

// String implements expvar.Var.
func (is *Iterations) String() string {
	var buf bytes.Buffer
	for i, iter := range *is {
		fmt.Fprintf(&buf, "%05d: %s\t%s\n", i, iter.StartTime, iter.Duration)
	}
	return buf.String()
}

func (is *Iterations) Start() *Iteration {
	i := &Iteration{StartTime: time.Now()}
	*is = append(*is, i)
	return i
}

func (is *Iterations) End(logLikelihood float64) *Iteration {
	i := (*is)[len(*is)-1]
	i.Duration = time.Since(i.StartTime)
	i.LogLikelihood = logLikelihood
	return i
}

// EnableExpvar publishes iteration progress through expvar and serves
// figures of the log-likelihood trajectory and per-iteration duration
// at /progress/loglikelihood and /progress/duration.
func EnableExpvar(addr string, onServeError func(error)) *Iterations {
	is := new(Iterations)
	*is = make(Iterations, 0)

	expvar.Publish("Iterations", is)
	http.Handle("/progress/loglikelihood", newLogLikelihoodFigureHandler(is))
	http.Handle("/progress/duration", newDurationFigureHandler(is))

	go func() {
		if e := http.ListenAndServe(addr, nil); e != nil {
			onServeError(e)
		}
	}()
	return is
}

func newLogLikelihoodFigureHandler(is *Iterations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps := make(plotter.XYs, 0, len(*is))
		for i := range *is {
			if (*is)[i].LogLikelihood != 0 {
				ps = append(ps, plotter.XY{
					X: float64(i), Y: (*is)[i].LogLikelihood})
			}
		}
		if e := plotFigure(w, ps, "Iteration", "Log-likelihood"); e != nil {
			http.Error(w, e.Error(), http.StatusInternalServerError)
		}
	}
}

func newDurationFigureHandler(is *Iterations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps := make(plotter.XYs, 0, len(*is))
		for i := range *is {
			// Skip initialization and yet-incomplete iterations.
			if i > 0 && (*is)[i].Duration > 0 {
				ps = append(ps, plotter.XY{
					X: float64(i), Y: (*is)[i].Duration.Minutes()})
			}
		}
		if e := plotFigure(w, ps, "Iteration", "Duration (min)"); e != nil {
			http.Error(w, e.Error(), http.StatusInternalServerError)
		}
	}
}

func plotFigure(w io.Writer, ps plotter.XYs, xLabel, yLabel string) error {
	p := plot.New()
	p.Title.Text = strings.Join(os.Args, " ")
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	p.Add(plotter.NewGrid())
	if e := plotutil.AddLinePoints(p, "", ps); e != nil {
		return fmt.Errorf("plotutil.AddLinePoints failed: %w", e)
	}

	img := vgimg.New(vg.Points(640), vg.Points(480))
	p.Draw(draw.New(img))
	png := vgimg.PngCanvas{Canvas: img}
	if _, e := png.WriteTo(w); e != nil {
		return fmt.Errorf("writing figure: %w", e)
	}
	return nil
}
