package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"docrank/internal/usecase"
)

// newProgress returns a progress callback drawing a bar on stderr, or nil
// when progress output is disabled. The callback is safe for concurrent use.
func newProgress(description string) usecase.ProgressFunc {
	if !showProgress() {
		return nil
	}

	var (
		bar      *progressbar.ProgressBar
		mu       sync.Mutex
		reported int
	)

	return func(done, total int, document string) {
		mu.Lock()
		defer mu.Unlock()

		if done <= reported {
			return
		}

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Describe(fmt.Sprintf("[cyan]%s[reset] %s", description, document))
		bar.Add(done - reported)
		reported = done
	}
}
