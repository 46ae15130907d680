package util

import (
	"io"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// Create new progress bar with custom options, drawn to out.
// Call Wait on the returned container once the bar is complete.
func NewProgressBar(out io.Writer, count int, name string) (*mpb.Progress, *mpb.Bar) {
	p := mpb.New(mpb.WithOutput(out))
	bar := p.New(int64(count),
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 2, C: decor.DidentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncSpace),
		),
	)
	return p, bar
}
