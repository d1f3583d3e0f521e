package pagesnap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/root4loot/goutils/log"
	"github.com/ysmood/gson"
)

// pngQuality is sent in the capture request when the format is PNG. The
// protocol ignores it for PNG; the user-requested quality only applies to
// JPEG.
const pngQuality = 90

// Capture takes a screenshot of the provided URL and returns the result.
// It never returns an error: every failure is folded into the result with
// Success set to false and a message identifying the failing step.
func (c *Capturer) Capture(captureURL string) Result {
	result := c.newResult(captureURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Options.Timeout)*time.Second)
	defer cancel()

	log.Debugf("Attempting capture on %s", captureURL)

	var image []byte
	var err error

	switch c.Options.Engine {
	case EngineChromedp:
		image, err = c.captureWithChromedp(ctx, captureURL)
	default:
		image, err = c.captureWithRod(ctx, captureURL)
	}
	if err != nil {
		log.Debugf("Capture failed for %s: %v", captureURL, err)
		return result.failed(err)
	}

	if c.Options.Label {
		labeled, lerr := c.labelImage(image, captureURL)
		if lerr != nil {
			log.Warnf("Could not add label to image for %s: %v", captureURL, lerr)
		} else {
			image = labeled
		}
	}

	result.Size = len(image)

	if c.Options.Base64 {
		result.Base64Data = encodeBase64(image)
	} else {
		if werr := writeImageFile(c.Options.OutputPath, image); werr != nil {
			return result.failed(stepError(ctx, "file write", werr))
		}
		result.FilePath = c.Options.OutputPath
		log.Debugf("Screenshot of %s saved to %s", captureURL, c.Options.OutputPath)
	}

	result.Success = true
	return result
}

// captureWithRod drives the capture sequence over rod's DevTools client:
// launch, drain events, open a page, set the viewport, navigate, wait for
// the load event, settle, screenshot.
func (c *Capturer) captureWithRod(ctx context.Context, captureURL string) ([]byte, error) {
	path, _ := launcher.LookPath()

	l := launcher.New().
		Context(ctx).
		Headless(c.Options.Headless).
		Bin(path).
		NoSandbox(c.Options.NoSandbox)

	if c.Options.UserAgent != "" {
		l.Set("user-agent", c.Options.UserAgent)
	}

	if c.Options.IgnoreCertificateErrors {
		l.Set("ignore-certificate-errors", "true")
	}

	if c.Options.DisableHTTP2 {
		l.Set("disable-http2", "true")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, stepError(ctx, "browser launch", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, stepError(ctx, "browser launch", err)
	}
	defer func() { _ = browser.Close() }()

	// Drain browser events so the connection never stalls on a full
	// buffer. The channel closes with the browser; errors are not
	// interesting here.
	go func() {
		for range browser.Event() {
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, stepError(ctx, "new page creation", err)
	}

	if c.Options.Width > 0 && c.Options.Height > 0 {
		viewport := &proto.EmulationSetDeviceMetricsOverride{
			Width:             c.Options.Width,
			Height:            c.Options.Height,
			DeviceScaleFactor: 1,
			Mobile:            false,
		}

		if err := page.SetViewport(viewport); err != nil {
			return nil, stepError(ctx, "viewport override", err)
		}
	}

	if err := page.Context(ctx).Navigate(captureURL); err != nil {
		return nil, stepError(ctx, "navigation", err)
	}

	if err := page.Context(ctx).WaitLoad(); err != nil {
		return nil, stepError(ctx, "wait for navigation", err)
	}

	if c.Options.Delay > 0 {
		time.Sleep(time.Duration(c.Options.Delay) * time.Second)
	}

	image, err := page.Screenshot(c.Options.FullPage, screenshotRequest(c.Options.Format, c.Options.Quality))
	if err != nil {
		return nil, stepError(ctx, "screenshot capture", err)
	}

	return image, nil
}

// screenshotRequest builds the capture parameters. The user-requested
// quality is forwarded for JPEG only; PNG always gets the fixed default.
func screenshotRequest(format Format, quality int) *proto.PageCaptureScreenshot {
	req := &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatPng,
		Quality: gson.Int(pngQuality),
	}

	if format == FormatJPEG {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = gson.Int(quality)
	}

	return req
}

// stepError tags err with the step it belongs to. A step killed by the
// run deadline reports as timed out rather than failed.
func stepError(ctx context.Context, step string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out: %w", step, err)
	}
	return fmt.Errorf("%s failed: %w", step, err)
}
