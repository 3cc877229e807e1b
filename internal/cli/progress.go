package cli

import (
	"fmt"
	"io"

	"github.com/law-makers/nutricrawl/internal/crawler"
	"github.com/schollz/progressbar/v3"
)

// progressObserver renders extraction progress as a bar on w
type progressObserver struct {
	w    io.Writer
	site string
	bar  *progressbar.ProgressBar
}

var _ crawler.Observer = (*progressObserver)(nil)

func newProgressObserver(w io.Writer, site string) *progressObserver {
	return &progressObserver{w: w, site: site}
}

// Discovered implements crawler.Observer
func (p *progressObserver) Discovered(total int) {
	if total == 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.site),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// ItemDone implements crawler.Observer
func (p *progressObserver) ItemDone(ev crawler.ItemEvent) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("%s %s", p.site, truncate(ev.Item.DisplayName, 24)))
	_ = p.bar.Add(1)
}

func (p *progressObserver) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
