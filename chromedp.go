package pagesnap

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// captureWithChromedp runs the same capture sequence on the chromedp
// backend. Each step gets its own Run call so a failure keeps the name of
// the step that caused it.
func (c *Capturer) captureWithChromedp(ctx context.Context, captureURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], c.execAllocatorFlags()...)

	if c.Options.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.Options.UserAgent))
	}

	allocator, cancelAllocator := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAllocator()

	cctx, cancelContext := chromedp.NewContext(allocator)
	defer cancelContext()

	// Swallow target events so the event stream never backs up.
	chromedp.ListenTarget(cctx, func(ev interface{}) {})

	// A Run with no actions starts the browser.
	if err := chromedp.Run(cctx); err != nil {
		return nil, stepError(ctx, "browser launch", err)
	}

	viewport := chromedp.EmulateViewport(int64(c.Options.Width), int64(c.Options.Height))
	if err := chromedp.Run(cctx, viewport); err != nil {
		return nil, stepError(ctx, "viewport override", err)
	}

	if err := chromedp.Run(cctx, chromedp.Navigate(captureURL)); err != nil {
		return nil, stepError(ctx, "navigation", err)
	}

	if err := chromedp.Run(cctx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return nil, stepError(ctx, "wait for navigation", err)
	}

	if c.Options.Delay > 0 {
		time.Sleep(time.Duration(c.Options.Delay) * time.Second)
	}

	var image []byte
	capture := chromedp.ActionFunc(func(ctx context.Context) error {
		quality := pngQuality
		format := page.CaptureScreenshotFormatPng
		if c.Options.Format == FormatJPEG {
			quality = c.Options.Quality
			format = page.CaptureScreenshotFormatJpeg
		}

		var err error
		image, err = page.CaptureScreenshot().
			WithFormat(format).
			WithQuality(int64(quality)).
			WithCaptureBeyondViewport(c.Options.FullPage).
			Do(ctx)
		return err
	})
	if err := chromedp.Run(cctx, capture); err != nil {
		return nil, stepError(ctx, "screenshot capture", err)
	}

	return image, nil
}

// execAllocatorFlags returns custom chromedp.ExecAllocatorOptions based on
// the capturer's Options.
func (c *Capturer) execAllocatorFlags() []chromedp.ExecAllocatorOption {
	customFlags := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", c.Options.Headless),
	}

	if c.Options.NoSandbox {
		customFlags = append(customFlags, chromedp.NoSandbox)
	}

	if c.Options.IgnoreCertificateErrors {
		customFlags = append(customFlags, chromedp.Flag("ignore-certificate-errors", true))
	}

	if c.Options.DisableHTTP2 {
		customFlags = append(customFlags, chromedp.Flag("disable-http2", true))
	}

	return customFlags
}
